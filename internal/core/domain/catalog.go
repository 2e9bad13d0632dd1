package domain

// BundlePackage is a purchasable data bundle. Price is in pesewas.
type BundlePackage struct {
	ID           string `json:"id"`
	NetworkID    int    `json:"networkID"`
	Name         string `json:"name"`
	DataAmount   string `json:"dataAmount"`
	Validity     string `json:"validity"`
	Price        int64  `json:"price"`
	SharedBundle int    `json:"sharedBundle"`
}

// DefaultCatalog returns the built-in package list.
func DefaultCatalog() []BundlePackage {
	return []BundlePackage{
		{ID: "mtn-1", NetworkID: NetworkMTN, Name: "MTN 500MB", DataAmount: "500MB", Validity: "3 Days", Price: 500, SharedBundle: 101},
		{ID: "mtn-2", NetworkID: NetworkMTN, Name: "MTN 1GB", DataAmount: "1GB", Validity: "7 Days", Price: 1000, SharedBundle: 102},
		{ID: "mtn-3", NetworkID: NetworkMTN, Name: "MTN 2GB", DataAmount: "2GB", Validity: "30 Days", Price: 2000, SharedBundle: 103},
		{ID: "mtn-4", NetworkID: NetworkMTN, Name: "MTN 5GB", DataAmount: "5GB", Validity: "30 Days", Price: 4500, SharedBundle: 104},
		{ID: "mtn-5", NetworkID: NetworkMTN, Name: "MTN 10GB", DataAmount: "10GB", Validity: "30 Days", Price: 8000, SharedBundle: 105},

		{ID: "telecel-1", NetworkID: NetworkTelecel, Name: "Telecel 700MB", DataAmount: "700MB", Validity: "3 Days", Price: 500, SharedBundle: 201},
		{ID: "telecel-2", NetworkID: NetworkTelecel, Name: "Telecel 1.5GB", DataAmount: "1.5GB", Validity: "7 Days", Price: 1000, SharedBundle: 202},
		{ID: "telecel-3", NetworkID: NetworkTelecel, Name: "Telecel 3GB", DataAmount: "3GB", Validity: "30 Days", Price: 2000, SharedBundle: 203},
		{ID: "telecel-4", NetworkID: NetworkTelecel, Name: "Telecel 6GB", DataAmount: "6GB", Validity: "30 Days", Price: 4500, SharedBundle: 204},
		{ID: "telecel-5", NetworkID: NetworkTelecel, Name: "Telecel 12GB", DataAmount: "12GB", Validity: "30 Days", Price: 8000, SharedBundle: 205},

		{ID: "airteltigo-1", NetworkID: NetworkAirtelTigo, Name: "AirtelTigo 600MB", DataAmount: "600MB", Validity: "3 Days", Price: 500, SharedBundle: 301},
		{ID: "airteltigo-2", NetworkID: NetworkAirtelTigo, Name: "AirtelTigo 1.2GB", DataAmount: "1.2GB", Validity: "7 Days", Price: 1000, SharedBundle: 302},
		{ID: "airteltigo-3", NetworkID: NetworkAirtelTigo, Name: "AirtelTigo 2.5GB", DataAmount: "2.5GB", Validity: "30 Days", Price: 2000, SharedBundle: 303},
		{ID: "airteltigo-4", NetworkID: NetworkAirtelTigo, Name: "AirtelTigo 5.5GB", DataAmount: "5.5GB", Validity: "30 Days", Price: 4500, SharedBundle: 304},
		{ID: "airteltigo-5", NetworkID: NetworkAirtelTigo, Name: "AirtelTigo 11GB", DataAmount: "11GB", Validity: "30 Days", Price: 8000, SharedBundle: 305},
	}
}
