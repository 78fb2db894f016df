package domain

// PanelPreferences holds the persisted state of the tag panel so a client
// restart restores the same view.
type PanelPreferences struct {
	FilterMode       string `json:"filterMode"`
	ActiveGroupID    string `json:"activeGroupId,omitempty"`
	ActiveModuleID   string `json:"activeModuleId,omitempty"`
	ConfirmRemovals  bool   `json:"confirmRemovals"`
	LastSearchQuery  string `json:"lastSearchQuery,omitempty"`
	PanelWidthPixels int    `json:"panelWidthPixels,omitempty"`
}

// NewPanelPreferences returns the defaults used before a client has
// saved anything.
func NewPanelPreferences() *PanelPreferences {
	return &PanelPreferences{
		FilterMode:      "all",
		ConfirmRemovals: true,
	}
}
