package entity

// PhysicalTicketRow is one normalized row of a physical ticket export.
// Column names follow the destination schema.
type PhysicalTicketRow struct {
	Folio      string  `json:"numero_documento"`
	IssueDate  string  `json:"fecha_emision"` // canonical YYYYMMDD
	TaxCode    string  `json:"codigo_tributario"`
	Net        float64 `json:"monto_neto"`
	Tax        float64 `json:"monto_impuestos"`
	Total      float64 `json:"monto_total"`
	SellerRUT  string  `json:"vendedor"`
	BranchName string  `json:"sucursal"`
}

// ElectronicTicketRow is one normalized row of an electronic ticket export.
type ElectronicTicketRow struct {
	TaxCode      string  `json:"tipo"`
	DocumentType string  `json:"tipo_documento"` // derived from payment indicator columns
	Folio        string  `json:"folio"`
	ReceiverName string  `json:"razon_social_receptor"`
	PublishedAt  string  `json:"publicacion"`   // canonical YYYYMMDD
	IssueDate    string  `json:"fecha_emision"` // canonical YYYYMMDD
	Net          float64 `json:"monto_neto"`
	Exempt       float64 `json:"monto_exento"`
	Tax          float64 `json:"monto_impuestos"`
	Total        float64 `json:"monto_total"`
	DeclaredAt   string  `json:"fecha_sii"` // canonical YYYYMMDD
	SIIStatus    string  `json:"estado_sii"`
}
