package grammar

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/hookeddocs/hookeddocs/constants"
	"github.com/hookeddocs/hookeddocs/internal/common"
	"github.com/hookeddocs/hookeddocs/internal/entity"
)

// Classification marker for the Mi Tienda layout.
const markerMiTienda = "MI TIENDA SPA"

// Start marker of the Mi Tienda item table; descriptions may continue over
// several lines below the row that opens them.
const miTiendaItemsHeader = "CANTIDAD SKU ITEM VALOR UNITARIO % DESCT. SUBTOTAL"

var (
	mtRUTRe      = regexp.MustCompile(`RUT:\s*([\d.\-Kk]+)`)
	mtEmailRe    = regexp.MustCompile(`MAIL:\s*(\S+@\S+)`)
	mtPhoneRe    = regexp.MustCompile(`TELEFONO:\s*([^\n]+)`)
	mtNumberRe   = regexp.MustCompile(`N[O°º\s]*\s*(\d+)`)
	mtDateRe     = regexp.MustCompile(`FECHA EMISION:\s*(\d{2}/\d{2}/\d{4})`)
	mtPayRe      = regexp.MustCompile(`FORMA DE PAGO:\s*(.*)`)
	mtItemRe     = regexp.MustCompile(`^(?P<quantity>\d+)\s+(?P<sku>\S+)\s+(?P<description>.+?)\s+\$\s*(?P<unit_price>[\d.,]+)\s+(?P<discount>[\d.,]+)\s*%\s+\$\s*(?P<subtotal>[\d.,]+)(?:\s+.*)?$`)
	mtItemOpenRe = regexp.MustCompile(`^\d+\s+\S+`)
	mtSubtotalRe = regexp.MustCompile(`NETO\s*\(\$\)\s*\$\s*([\d.,]+)`)
	mtTaxRe      = regexp.MustCompile(`I\.?V\.?A\.?\s*19%\s*\$\s*([\d.,]+)`)
	mtTotalRe    = regexp.MustCompile(`TOTAL\s*\(\$\)\s*\$\s*([\d.,]+)`)
)

type miTienda struct{}

// NewMiTienda returns the grammar for the Mi Tienda invoice layout.
func NewMiTienda() Grammar { return &miTienda{} }

func (g *miTienda) ID() string { return "mi_tienda" }

func (g *miTienda) Extract(text string, seen SeenLines) (*entity.InvoiceRecord, error) {
	text = FoldAccents(ApplyCorrections(g.ID(), text))
	lines := strings.Split(text, "\n")

	rec := &entity.InvoiceRecord{
		Category: constants.InvoicesReceived,
		Issuer:   entity.Party{Name: markerMiTienda},
	}

	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])

		// The buyer block repeats RUT/phone labels under "SENOR(ES)"; only
		// the issuer's occurrence counts.
		if strings.Contains(line, "RUT:") && rec.Issuer.RUT == "" && !strings.Contains(line, "SENOR") {
			if m := mtRUTRe.FindStringSubmatch(line); m != nil {
				rec.Issuer.RUT = stripRUT(m[1])
			}
		}
		if strings.HasPrefix(line, "AV ") {
			rec.Issuer.Address = line
		}
		if strings.Contains(line, "MAIL:") {
			if m := mtEmailRe.FindStringSubmatch(line); m != nil {
				rec.Issuer.Email = strings.TrimSpace(m[1])
			}
		}
		if strings.Contains(line, "TELEFONO:") && rec.Issuer.Phone == "" && !strings.Contains(line, "SENOR") {
			if m := mtPhoneRe.FindStringSubmatch(line); m != nil {
				rec.Issuer.Phone = strings.ReplaceAll(strings.TrimSpace(m[1]), " ", "")
			}
		}
		if rec.InvoiceNumber == "" &&
			(strings.Contains(line, "N°") || strings.Contains(line, "Nº") || strings.Contains(line, "NO ")) {
			if m := mtNumberRe.FindStringSubmatch(line); m != nil {
				rec.InvoiceNumber = m[1]
			}
		}
		if strings.Contains(line, "FECHA EMISION:") && rec.IssueDate == "" {
			if m := mtDateRe.FindStringSubmatch(line); m != nil {
				date, err := NormalizeDate(m[1])
				if err != nil {
					return nil, err
				}
				rec.IssueDate = date
			}
		}
		if strings.Contains(line, "FORMA DE PAGO:") && rec.PayMethod == "" {
			if m := mtPayRe.FindStringSubmatch(line); m != nil {
				pay := strings.TrimSpace(m[1])
				// Value may wrap onto the following line.
				if pay == "" && i+1 < len(lines) {
					i++
					pay = strings.TrimSpace(lines[i])
				}
				rec.PayMethod = pay
			}
		}

		if strings.Contains(line, miTiendaItemsHeader) {
			items, next, err := g.extractItems(lines, i+1, seen)
			if err != nil {
				return nil, err
			}
			rec.Items = append(rec.Items, items...)
			i = next
		}

		if (strings.Contains(line, "NETO ($)") || strings.Contains(line, "NETO($)")) && rec.Subtotal == nil {
			if m := mtSubtotalRe.FindStringSubmatch(line); m != nil {
				v, err := MandatoryAmount("subtotal", m[1])
				if err != nil {
					return nil, err
				}
				rec.Subtotal = &v
			}
		}
		if (strings.Contains(line, "I.V.A. 19%") || strings.Contains(line, "IVA 19%")) && rec.Tax == nil {
			if m := mtTaxRe.FindStringSubmatch(line); m != nil {
				v, err := MandatoryAmount("tax", m[1])
				if err != nil {
					return nil, err
				}
				rec.Tax = &v
			}
		}
		if (strings.Contains(line, "TOTAL ($)") || strings.Contains(line, "TOTAL($)")) && rec.Total == nil {
			if m := mtTotalRe.FindStringSubmatch(line); m != nil {
				v, err := MandatoryAmount("total", m[1])
				if err != nil {
					return nil, err
				}
				rec.Total = &v
			}
		}
	}

	if rec.InvoiceNumber == "" {
		return nil, common.FieldMissingError("invoice_number")
	}
	if rec.Total == nil {
		return nil, common.FieldMissingError("total")
	}
	return rec, nil
}

// extractItems joins wrapped description lines back onto their opening row,
// then parses each logical item row. Returns the line index processing
// should resume at.
func (g *miTienda) extractItems(lines []string, start int, seen SeenLines) ([]entity.LineItem, int, error) {
	end := len(lines)
	for j := start; j < len(lines); j++ {
		upper := strings.ToUpper(lines[j])
		if strings.Contains(upper, "NOTA:") || strings.Contains(upper, "SON:") || strings.Contains(lines[j], "_____") {
			end = j
			break
		}
	}

	var logical []string
	var current []string
	for k := start; k < end; k++ {
		line := strings.TrimSpace(lines[k])
		if line == "" {
			continue
		}
		if mtItemOpenRe.MatchString(line) {
			if len(current) > 0 {
				logical = append(logical, strings.Join(current, " "))
				current = current[:0]
			}
			current = append(current, line)
		} else {
			current = append(current, line)
		}
	}
	if len(current) > 0 {
		logical = append(logical, strings.Join(current, " "))
	}

	var items []entity.LineItem
	for _, row := range logical {
		if seen.Seen(row) {
			continue
		}
		m := mtItemRe.FindStringSubmatch(row)
		if m == nil {
			continue
		}
		fields := captures(mtItemRe, m)
		qty, err := strconv.Atoi(fields["quantity"])
		if err != nil {
			continue
		}
		unit, err := ParseAmount(fields["unit_price"])
		if err != nil {
			return nil, 0, common.MalformedNumberError("unit_price", fields["unit_price"])
		}
		discount, err := ParseAmount(fields["discount"])
		if err != nil {
			discount = 0
		}
		sub, err := ParseAmount(fields["subtotal"])
		if err != nil {
			return nil, 0, common.MalformedNumberError("line_subtotal", fields["subtotal"])
		}
		items = append(items, entity.LineItem{
			SKU:         fields["sku"],
			Description: strings.TrimSpace(fields["description"]),
			Quantity:    qty,
			UnitPrice:   unit,
			Discount:    discount,
			Subtotal:    sub,
		})
	}
	return items, end - 1, nil
}
