package model

// PortalView is the read-only aggregate a portal visitor is entitled to see
// for one job: the job itself plus the contract, quote, and contact behind
// it, the job's files, and the contract's invoices.
type PortalView struct {
	Job      Job       `json:"job"`
	Contract Contract  `json:"contract"`
	Quote    Quote     `json:"quote"`
	Contact  Contact   `json:"contact"`
	Files    []JobFile `json:"files"`
	Invoices []Invoice `json:"invoices"`
}
