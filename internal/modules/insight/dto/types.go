package dto

type ProviderInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Enabled bool   `json:"enabled"`
	Binary  string `json:"binary"`
}

type DoctorResult struct {
	Name            string `json:"name"`
	ChecksumValid   bool   `json:"checksum_valid"`
	BinaryReachable bool   `json:"binary_reachable"`
	LifecycleOK     bool   `json:"lifecycle_ok"`
	Error           string `json:"error,omitempty"`
}

type RunOutput struct {
	Provider string   `json:"provider"`
	Received int      `json:"received"`
	Stored   int      `json:"stored"`
	Rejected int      `json:"rejected"`
	IDs      []string `json:"ids"`
}
