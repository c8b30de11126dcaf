package config

// Config carries the settings of one preview run, filled from command-line
// flags in cmd/keyline.
type Config struct {
	ScenarioPath string
	OutputDir    string
	Width        int
	Height       int
	SuperSample  int
	Workers      int
	ShareBase    string
	StampQR      bool
	ShowStats    bool
	BuildVersion string
}

// GraphParams describes one graph render job inside a preview run.
type GraphParams struct {
	ItemID    string
	Property  string
	Width     int
	Height    int
	FrameSpan int
}
