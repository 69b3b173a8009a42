package client

// Wire types shared by the server and the client.

// SpeciesInfo describes one registered species or surface class.
type SpeciesInfo struct {
	ID           uint16 `json:"id"`
	Name         string `json:"name"`
	Hash         uint32 `json:"hash"`
	SurfaceClass bool   `json:"surface_class,omitempty"`
	OnGrid       bool   `json:"on_grid,omitempty"`
	Generic      bool   `json:"generic,omitempty"`
}

// SpeciesList is the body of GET /species.
type SpeciesList struct {
	Species []SpeciesInfo `json:"species"`
}

// PathwayInfo describes one pathway of a reaction.
type PathwayInfo struct {
	Name     string  `json:"name"`
	Rate     float64 `json:"rate"`
	Occurred uint64  `json:"occurred"`
}

// ReactionInfo describes one reaction record and where it lives in the table.
type ReactionInfo struct {
	Name       string        `json:"name"`
	Players    []string      `json:"players"`
	Geometries []int16       `json:"geometries"`
	Bucket     int           `json:"bucket"`
	Pathways   []PathwayInfo `json:"pathways"`
}

// ReactionList is the body of GET /reactions.
type ReactionList struct {
	Reactions []ReactionInfo `json:"reactions"`
}

// WallRef names a wall and its surface class.
type WallRef struct {
	ID    uint32 `json:"id"`
	Class string `json:"class"`
}

// MoleculeRef describes a molecule taking part in an encounter.
type MoleculeRef struct {
	Species string   `json:"species"`
	Orient  int8     `json:"orient,omitempty"`
	Wall    *WallRef `json:"wall,omitempty"`
}

// UnimolecularRequest is the body of POST /trigger/unimolecular.
type UnimolecularRequest struct {
	Molecule MoleculeRef `json:"molecule"`
}

// SurfaceUnimolecularRequest is the body of POST /trigger/surface-unimolecular.
// Wall overrides the molecule's own wall when set.
type SurfaceUnimolecularRequest struct {
	Molecule MoleculeRef `json:"molecule"`
	Wall     *WallRef    `json:"wall,omitempty"`
}

// BimolecularRequest is the body of POST /trigger/bimolecular.
// OrientA and OrientB are the orientations the trigger compares; zero means
// the pair meets in free space. A nonzero Orient on A or B must equal the
// matching field or the server answers 400.
type BimolecularRequest struct {
	A       MoleculeRef `json:"a"`
	B       MoleculeRef `json:"b"`
	OrientA int8        `json:"orient_a,omitempty"`
	OrientB int8        `json:"orient_b,omitempty"`
}

// TrimolecularRequest is the body of POST /trigger/trimolecular.
type TrimolecularRequest struct {
	A       string `json:"a"`
	B       string `json:"b"`
	C       string `json:"c"`
	OrientA int8   `json:"orient_a,omitempty"`
	OrientC int8   `json:"orient_c,omitempty"`
}

// IntersectRequest is the body of POST /trigger/intersect.
type IntersectRequest struct {
	Molecule MoleculeRef `json:"molecule"`
	Orient   int8        `json:"orient,omitempty"`
	Wall     WallRef     `json:"wall"`
}

// TriggerResponse lists the names of the matching reactions in table order.
type TriggerResponse struct {
	Reactions []string `json:"reactions"`
	Truncated bool     `json:"truncated,omitempty"`
}

// WebhookConfig configures a webhook notifier.
type WebhookConfig struct {
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers,omitempty"`
}

// RegisterNotifierRequest is the body of POST /notifiers.
type RegisterNotifierRequest struct {
	Type   string        `json:"type"`
	ID     string        `json:"id"`
	Config WebhookConfig `json:"config"`
}

// NotifierInfo describes a registered notifier.
type NotifierInfo struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// NotifierList is the body of GET /notifiers.
type NotifierList struct {
	Notifiers []NotifierInfo `json:"notifiers"`
}
