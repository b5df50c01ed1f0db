package grammar

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/hookeddocs/hookeddocs/constants"
	"github.com/hookeddocs/hookeddocs/internal/common"
	"github.com/hookeddocs/hookeddocs/internal/entity"
)

// Classification marker for the Professional Fishing layout.
const markerProfessionalFishing = "PROFESSIONAL FISHING SPA"

var (
	pfRUTRe      = regexp.MustCompile(`R\.U\.T:?\s*([\d.\-]+)`)
	pfEmailRe    = regexp.MustCompile(`EMAIL:\s*(\S+@\S+)`)
	pfPhoneRe    = regexp.MustCompile(`TELEFONO\(S\):\s*([^\n]+)`)
	pfNumberRe   = regexp.MustCompile(`N[O°º]?\s*(\d+)`)
	pfDateRe     = regexp.MustCompile(`FECHA EMISION:\s*(\d{1,2}\s+DE\s+[A-Z]+\s+DEL?\s+\d{4})`)
	pfPayRe      = regexp.MustCompile(`FORMA PAGO:\s*(.+)`)
	pfItemRe     = regexp.MustCompile(`^(?P<code>\S+)\s+(?P<description>.+?)\s+(?P<quantity>\d+)\s+(?P<unit_price>[\d.,]+)(?:\s+(?P<discount>[\d.,]+)\s*%)?\s*(AFECTO|EXENTO)?\s+(?P<total_price>[\d.,]+)`)
	pfSubtotalRe = regexp.MustCompile(`MONTO NETO:\s*\$\s*([\d.,]+)`)
	pfTaxRe      = regexp.MustCompile(`IVA\s*\(19%\):\s*\$\s*([\d.,]+)`)
	pfTotalRe    = regexp.MustCompile(`TOTAL:\s*\$\s*([\d.,]+)`)
)

type professionalFishing struct{}

// NewProfessionalFishing returns the grammar for the Professional Fishing
// invoice layout.
func NewProfessionalFishing() Grammar { return &professionalFishing{} }

func (g *professionalFishing) ID() string { return "professional_fishing" }

func (g *professionalFishing) Extract(text string, seen SeenLines) (*entity.InvoiceRecord, error) {
	text = FoldAccents(ApplyCorrections(g.ID(), text))
	lines := strings.Split(text, "\n")

	rec := &entity.InvoiceRecord{
		Category: constants.InvoicesReceived,
		Issuer:   entity.Party{Name: markerProfessionalFishing},
	}

	for i, line := range lines {
		line = strings.TrimSpace(line)

		if strings.Contains(line, "R.U.T") && rec.Issuer.RUT == "" {
			if m := pfRUTRe.FindStringSubmatch(line); m != nil {
				rec.Issuer.RUT = stripRUT(m[1])
			}
		}
		if strings.HasPrefix(line, "DIRECCION:") && !strings.Contains(line, "COMUNA:") {
			if _, rest, ok := strings.Cut(line, ":"); ok {
				rec.Issuer.Address = strings.TrimSpace(rest)
			}
		}
		if strings.Contains(line, "EMAIL:") {
			if m := pfEmailRe.FindStringSubmatch(line); m != nil {
				rec.Issuer.Email = strings.TrimSpace(m[1])
			}
		}
		if strings.Contains(line, "TELEFONO(S):") {
			if m := pfPhoneRe.FindStringSubmatch(line); m != nil {
				rec.Issuer.Phone = strings.ReplaceAll(strings.TrimSpace(m[1]), " ", "")
			}
		}
		if hasInvoiceNumberPrefix(line) && rec.InvoiceNumber == "" {
			if m := pfNumberRe.FindStringSubmatch(line); m != nil {
				rec.InvoiceNumber = m[1]
			}
		}
		if strings.Contains(line, "FECHA EMISION") && rec.IssueDate == "" {
			if m := pfDateRe.FindStringSubmatch(line); m != nil {
				date, err := NormalizeDate(m[1])
				if err != nil {
					return nil, err
				}
				rec.IssueDate = date
			}
		}
		if strings.Contains(line, "FORMA PAGO:") && rec.PayMethod == "" {
			if m := pfPayRe.FindStringSubmatch(line); m != nil {
				rec.PayMethod = strings.TrimSpace(m[1])
			}
		}

		if strings.Contains(line, "CODIGO DESCRIPCION") {
			items, err := g.extractItems(lines[i+1:], seen)
			if err != nil {
				return nil, err
			}
			rec.Items = append(rec.Items, items...)
		}
	}

	if m := pfSubtotalRe.FindStringSubmatch(text); m != nil {
		v, err := MandatoryAmount("subtotal", m[1])
		if err != nil {
			return nil, err
		}
		rec.Subtotal = &v
	}
	if m := pfTaxRe.FindStringSubmatch(text); m != nil {
		v, err := MandatoryAmount("tax", m[1])
		if err != nil {
			return nil, err
		}
		rec.Tax = &v
	}
	if m := pfTotalRe.FindStringSubmatch(text); m != nil {
		v, err := MandatoryAmount("total", m[1])
		if err != nil {
			return nil, err
		}
		rec.Total = &v
	}

	if rec.InvoiceNumber == "" {
		return nil, common.FieldMissingError("invoice_number")
	}
	if rec.Total == nil {
		return nil, common.FieldMissingError("total")
	}
	return rec, nil
}

// extractItems consumes candidate item rows until a line-count terminator.
// Rows identical to one already seen in this document are OCR echoes and are
// skipped.
func (g *professionalFishing) extractItems(rest []string, seen SeenLines) ([]entity.LineItem, error) {
	end := len(rest)
	for j, line := range rest {
		if strings.Contains(line, "N° LINEAS") || strings.Contains(line, "Nº LINEAS") || strings.Contains(line, "NO LINEAS") {
			end = j
			break
		}
	}

	var items []entity.LineItem
	for _, line := range rest[:end] {
		line = strings.TrimSpace(line)
		if line == "" || seen.Seen(line) {
			continue
		}
		m := pfItemRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		fields := captures(pfItemRe, m)
		qty, err := strconv.Atoi(fields["quantity"])
		if err != nil {
			continue
		}
		unit, err := ParseAmount(fields["unit_price"])
		if err != nil {
			return nil, common.MalformedNumberError("unit_price", fields["unit_price"])
		}
		sub, err := ParseAmount(fields["total_price"])
		if err != nil {
			return nil, common.MalformedNumberError("line_subtotal", fields["total_price"])
		}
		discount := 0.0
		if fields["discount"] != "" {
			if d, err := ParseAmount(fields["discount"]); err == nil {
				discount = d
			}
		}
		items = append(items, entity.LineItem{
			SKU:         fields["code"],
			Description: strings.TrimSpace(fields["description"]),
			Quantity:    qty,
			UnitPrice:   unit,
			Discount:    discount,
			Subtotal:    sub,
		})
	}
	return items, nil
}

// hasInvoiceNumberPrefix matches the layout's number line, which the OCR may
// render with any of the degree-sign variants.
func hasInvoiceNumberPrefix(line string) bool {
	return strings.HasPrefix(line, "N°") || strings.HasPrefix(line, "Nº") || strings.HasPrefix(line, "NO")
}

// stripRUT removes formatting dots and the verifier dash from a taxpayer id.
func stripRUT(raw string) string {
	s := strings.ReplaceAll(raw, ".", "")
	s = strings.ReplaceAll(s, "-", "")
	return strings.TrimSpace(s)
}

// captures maps named subexpressions to their matched values.
func captures(re *regexp.Regexp, match []string) map[string]string {
	out := make(map[string]string, len(match))
	for i, name := range re.SubexpNames() {
		if name != "" && i < len(match) {
			out[name] = match[i]
		}
	}
	return out
}
