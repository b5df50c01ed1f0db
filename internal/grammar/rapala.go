package grammar

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/hookeddocs/hookeddocs/constants"
	"github.com/hookeddocs/hookeddocs/internal/common"
	"github.com/hookeddocs/hookeddocs/internal/entity"
)

// Rapala invoices carry no usable vendor-name line, so classification keys
// on the issuer's taxpayer id instead.
const markerRapalaRUT = "76.214.117-5"

// Letterhead data the scanned layout never renders legibly.
const (
	rapalaName    = "RAPALA"
	rapalaAddress = "EL ROBRE 731, RECOLETA, SANTIAGO"
	rapalaPhone   = "+56224017467"
)

var (
	raRUTRe      = regexp.MustCompile(`R\.U\.T\.?:\s*([\d.\-]+)`)
	raNumberRe   = regexp.MustCompile(`N[°º]?\s*(\d+)`)
	raDateRe     = regexp.MustCompile(`FECHA EMISION\s*:\s*(\d{1,2}\s*-\s*[A-Z]+\s+DE\s+\d{4})`)
	raPayRe      = regexp.MustCompile(`PAGO\s*:\s*(.+)`)
	raItemsRe    = regexp.MustCompile(`(?s)CODIGO DESCRIPCION CANTIDAD.*?\n(.*?)(?:DOCUMENTO REFERENCIA|NETO|SON:)`)
	raItemRe     = regexp.MustCompile(`^(?P<code>\S+)\s+(?P<description>.+?)\s+(?P<quantity>\d+)\s+\w+\s+(?P<unit_price>[\d.,]+)\s+(?P<discount>[\d.,]+)\s*%\s+(?P<desc_amount>[\d.,]+)\s+(?P<total_price>[\d.,]+)`)
	raSubtotalRe = regexp.MustCompile(`NETO\s*([\d.,]+)`)
	raTaxRe      = regexp.MustCompile(`I\.V\.A\. 19%\s*([\d.,]+)`)
	raTotalRe    = regexp.MustCompile(`TOTAL\s*([\d.,]+)`)
)

type rapala struct{}

// NewRapala returns the grammar for the Rapala scanned-invoice layout.
func NewRapala() Grammar { return &rapala{} }

func (g *rapala) ID() string { return "rapala" }

func (g *rapala) Extract(text string, seen SeenLines) (*entity.InvoiceRecord, error) {
	text = ApplyCorrections(g.ID(), text)

	rec := &entity.InvoiceRecord{
		Category: constants.InvoicesReceived,
		Issuer: entity.Party{
			Name:    rapalaName,
			Address: rapalaAddress,
			Phone:   rapalaPhone,
		},
	}

	if m := raRUTRe.FindStringSubmatch(text); m != nil {
		rec.Issuer.RUT = stripRUT(m[1])
	}
	if m := raNumberRe.FindStringSubmatch(text); m != nil {
		rec.InvoiceNumber = m[1]
	}
	if m := raDateRe.FindStringSubmatch(text); m != nil {
		date, err := NormalizeDate(m[1])
		if err != nil {
			return nil, err
		}
		rec.IssueDate = date
	}
	if m := raPayRe.FindStringSubmatch(text); m != nil {
		rec.PayMethod = strings.TrimSpace(m[1])
	}

	if m := raItemsRe.FindStringSubmatch(text); m != nil {
		for _, line := range strings.Split(strings.TrimSpace(m[1]), "\n") {
			line = strings.TrimSpace(line)
			if line == "" || seen.Seen(line) {
				continue
			}
			im := raItemRe.FindStringSubmatch(line)
			if im == nil {
				continue
			}
			fields := captures(raItemRe, im)
			qty, err := strconv.Atoi(fields["quantity"])
			if err != nil {
				continue
			}
			unit, err := ParseAmount(fields["unit_price"])
			if err != nil {
				return nil, common.MalformedNumberError("unit_price", fields["unit_price"])
			}
			discount, _ := ParseAmount(fields["discount"])
			sub, err := ParseAmount(fields["total_price"])
			if err != nil {
				return nil, common.MalformedNumberError("line_subtotal", fields["total_price"])
			}
			rec.Items = append(rec.Items, entity.LineItem{
				SKU:         fields["code"],
				Description: strings.TrimSpace(fields["description"]),
				Quantity:    qty,
				UnitPrice:   unit,
				Discount:    discount,
				Subtotal:    sub,
			})
		}
	}

	if m := raSubtotalRe.FindStringSubmatch(text); m != nil {
		v, err := MandatoryAmount("subtotal", m[1])
		if err != nil {
			return nil, err
		}
		rec.Subtotal = &v
	}
	if m := raTaxRe.FindStringSubmatch(text); m != nil {
		v, err := MandatoryAmount("tax", m[1])
		if err != nil {
			return nil, err
		}
		rec.Tax = &v
	}
	if m := raTotalRe.FindStringSubmatch(text); m != nil {
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
