package models

// Aircraft is a row of the AC_MASTER table
type Aircraft struct {
	Registration string // AC registration (e.g., N921VA)
	TypeCode     string // Aircraft type code
	SerialNumber string // Manufacturer serial number
	Status       string // Operational status
}

// InventoryItem is a row of PN_INVENTORY_DETAIL, the current location of a serialized part
type InventoryItem struct {
	PN          string
	SN          string
	InstalledAC string // Empty when the part sits in stores
}
