package grammar

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/hookeddocs/hookeddocs/constants"
	"github.com/hookeddocs/hookeddocs/internal/common"
	"github.com/hookeddocs/hookeddocs/internal/entity"
)

// Issued invoices rendered as digital PDFs keep their layout intact, so the
// whole document can be matched with anchored multi-line patterns.
var (
	idRUTRe     = regexp.MustCompile(`R\.U\.T\.?:\s*([\d.\-\s]+)`)
	idTypeRe    = regexp.MustCompile(`\n(FACTURA ELECTRONICA)\n`)
	idNumberRe  = regexp.MustCompile(`N[ºN]?\s*(\d+)`)
	idGiroRe    = regexp.MustCompile(`(?s)GIRO:\s*(.*?)(?:N[ºN]|BLANCO|EMAIL|R\.U\.T\.:)`)
	idAddressRe = regexp.MustCompile(`\n(BLANCO.*)`)
	idEmailRe   = regexp.MustCompile(`EMAIL\s*:\s*(\S+@\S+)`)
	idPhoneRe   = regexp.MustCompile(`(?s)TELEFONO\s*:\s*((?:\d+\s*)+)`)
	idDateRe    = regexp.MustCompile(`FECHA EMISION:\s*(\d{1,2} DE [A-Z]+ DEL \d{4})`)
	idPayRe     = regexp.MustCompile(`FORMA DE PAGO:\s*(.*)`)
	idItemsRe   = regexp.MustCompile(`(?s)CODIGO DESCRIPCION CANTIDAD PRECIO.*?\n.*?\n(.*?)(?:FORMA DE PAGO|MONTO NETO)`)
	idItemRe    = regexp.MustCompile(`^-\s*(?P<description>.*?)\s+(?P<quantity>\d+\s*\d*)\s+(?P<unit_price>[\d.,]+)\s+(?P<total_price>[\d.,]+)`)

	idSubtotalRe = regexp.MustCompile(`MONTO NETO \$\s*([\d.,]+)`)
	idTaxRe      = regexp.MustCompile(`I\.V\.A\. 19% \$\s*([\d.,]+)`)
	idTotalRe    = regexp.MustCompile(`TOTAL \$\s*([\d.,]+)`)

	idBuyerRe        = regexp.MustCompile(`(?s)SEÑOR\(ES\):\s*(.*?)\n(?:CONTACTO:|TIPO DE COMPRA:|CODIGO DESCRIPCION)`)
	idBuyerRUTRe     = regexp.MustCompile(`R\.U\.T\.:\s*([\d.]+-\s*\d+)`)
	idBuyerGiroRe    = regexp.MustCompile(`GIRO:\s*(.*)`)
	idBuyerAddressRe = regexp.MustCompile(`DIRECCION:\s*(.*)`)
	idBuyerComunaRe  = regexp.MustCompile(`COMUNA\s*(.*?)\s*CIUDAD:`)

	digitsRe = regexp.MustCompile(`\d+`)
)

type issuedDocument struct{}

// NewIssuedDocument returns the grammar for issued invoices delivered as
// digital PDF documents.
func NewIssuedDocument() Grammar { return &issuedDocument{} }

func (g *issuedDocument) ID() string { return "issued_document" }

func (g *issuedDocument) Extract(text string, seen SeenLines) (*entity.InvoiceRecord, error) {
	text = ApplyCorrections(g.ID(), text)

	rec := &entity.InvoiceRecord{Category: constants.InvoicesIssued}

	if m := idRUTRe.FindStringSubmatchIndex(text); m != nil {
		raw := text[m[2]:m[3]]
		rec.Issuer.RUT = stripRUT(strings.ReplaceAll(raw, " ", ""))
		// The issuer's legal name follows the RUT line, running until the
		// document-type banner or the activity label.
		var nameLines []string
		for _, line := range strings.Split(text[m[1]:], "\n") {
			line = strings.TrimSpace(line)
			if line == "" || strings.Contains(line, "FACTURA ELECTRONICA") || strings.Contains(line, "GIRO:") {
				break
			}
			nameLines = append(nameLines, line)
		}
		rec.Issuer.Name = strings.Join(nameLines, " ")
	}

	if m := idTypeRe.FindStringSubmatch(text); m != nil {
		rec.InvoiceType = m[1]
	}
	if m := idNumberRe.FindStringSubmatch(text); m != nil {
		rec.InvoiceNumber = m[1]
	}
	if m := idGiroRe.FindStringSubmatch(text); m != nil {
		rec.Issuer.EconomicActivity = strings.ReplaceAll(strings.TrimSpace(m[1]), "\n", " ")
	}
	if m := idAddressRe.FindStringSubmatch(text); m != nil {
		rec.Issuer.Address = strings.TrimSpace(m[1])
	}
	if m := idEmailRe.FindStringSubmatch(text); m != nil {
		rec.Issuer.Email = m[1]
	}
	if m := idPhoneRe.FindStringSubmatch(text); m != nil {
		rec.Issuer.Phone = strings.Join(digitsRe.FindAllString(m[1], -1), "")
	}
	if m := idDateRe.FindStringSubmatch(text); m != nil {
		date, err := NormalizeDate(m[1])
		if err != nil {
			return nil, err
		}
		rec.IssueDate = date
	}
	if m := idPayRe.FindStringSubmatch(text); m != nil {
		rec.PayMethod = strings.TrimSpace(m[1])
	}

	if m := idItemsRe.FindStringSubmatch(text); m != nil {
		for _, line := range strings.Split(strings.TrimSpace(m[1]), "\n") {
			line = strings.TrimSpace(line)
			if line == "" || seen.Seen(line) {
				continue
			}
			im := idItemRe.FindStringSubmatch(line)
			if im == nil {
				continue
			}
			fields := captures(idItemRe, im)
			qty, err := strconv.Atoi(strings.ReplaceAll(fields["quantity"], " ", ""))
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
			rec.Items = append(rec.Items, entity.LineItem{
				Description: strings.TrimSpace(fields["description"]),
				Quantity:    qty,
				UnitPrice:   unit,
				Subtotal:    sub,
			})
		}
	}

	if m := idSubtotalRe.FindStringSubmatch(text); m != nil {
		v, err := MandatoryAmount("subtotal", m[1])
		if err != nil {
			return nil, err
		}
		rec.Subtotal = &v
	}
	if m := idTaxRe.FindStringSubmatch(text); m != nil {
		v, err := MandatoryAmount("tax", m[1])
		if err != nil {
			return nil, err
		}
		rec.Tax = &v
	}
	if m := idTotalRe.FindStringSubmatch(text); m != nil {
		v, err := MandatoryAmount("total", m[1])
		if err != nil {
			return nil, err
		}
		rec.Total = &v
	}

	if m := idBuyerRe.FindStringSubmatch(text); m != nil {
		section := m[1]
		buyer := &entity.Party{}
		buyer.Name = strings.TrimSpace(strings.SplitN(section, "\n", 2)[0])
		if bm := idBuyerRUTRe.FindStringSubmatch(section); bm != nil {
			buyer.RUT = stripRUT(strings.ReplaceAll(bm[1], " ", ""))
		}
		if bm := idBuyerGiroRe.FindStringSubmatch(section); bm != nil {
			buyer.EconomicActivity = strings.TrimSpace(bm[1])
		}
		if bm := idBuyerAddressRe.FindStringSubmatch(section); bm != nil {
			buyer.Address = strings.TrimSpace(bm[1])
		}
		if bm := idBuyerComunaRe.FindStringSubmatch(section); bm != nil {
			buyer.Commune = strings.TrimSpace(bm[1])
		}
		rec.Buyer = buyer
	}

	if rec.InvoiceNumber == "" {
		return nil, common.FieldMissingError("invoice_number")
	}
	if rec.Total == nil {
		return nil, common.FieldMissingError("total")
	}
	return rec, nil
}
