package entity

// AuditEntry is a validation outcome row produced by the storage-side
// expansion step. The pipeline only ever reads these.
type AuditEntry struct {
	IssuerName string `json:"issuer_name"`
	Process    string `json:"process"`
	DocumentID string `json:"document_id"`
	IssueDate  string `json:"issue_date"`
	Message    string `json:"message"`
}
