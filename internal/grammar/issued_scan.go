package grammar

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/hookeddocs/hookeddocs/constants"
	"github.com/hookeddocs/hookeddocs/internal/common"
	"github.com/hookeddocs/hookeddocs/internal/entity"
)

// The scanned issued layout comes out of OCR with heavier noise, so several
// fields fall back to anchors known from the letterhead.
const issuedScanIssuerName = "CHRISTIAN JONATHAN POZO OVALLE"

var (
	isNumberRe  = regexp.MustCompile(`N[ºN]?\s*(\d+)`)
	isNameRe    = regexp.MustCompile(`CHRISTIAN JONATHAN POZO\s*OVALLE`)
	isRUTRe     = regexp.MustCompile(`R\.U\.T\.:\s*([\d.]+-\s*\w)`)
	isGiroRe    = regexp.MustCompile(`GIRO:\s*(.*?)\n`)
	isAddressRe = regexp.MustCompile(`BLANCO\s*\d{3,}-\s*VALPARAISO`)
	isEmailRe   = regexp.MustCompile(`EMAIL\s*:\s*(\S+@\S+)`)
	isPhoneRe   = regexp.MustCompile(`TELEFONO\s*:\s*([\d\-]+)`)
	isDateRe    = regexp.MustCompile(`FECHA EMISION:\s*(\d{1,2} DE [A-Z]+ DEL \d{4})`)
	isPayRe     = regexp.MustCompile(`FORMA DE PAGO\s*:\s*(\w+)`)

	isBuyerNameRe    = regexp.MustCompile(`SEÑOR\(ES\):\s*(.*?)\n`)
	isBuyerRUTRe     = regexp.MustCompile(`R\.U\.T\.\s*:\s*([\d.]+-\s*\w)`)
	isBuyerAddressRe = regexp.MustCompile(`DIRECCION:\s*(.*?)\n`)
	isBuyerComunaRe  = regexp.MustCompile(`COMUNA\s*—\s*(.*?)\s*CIUDAD:`)

	isItemRe     = regexp.MustCompile(`ARTICULOS DE PESCA\s*(\d+)\s*([\d.,]+)\s*([\d.,]+)`)
	isSubtotalRe = regexp.MustCompile(`MONTO NETO\s*\$\s*([\d.,]+)`)
	isTaxRe      = regexp.MustCompile(`I\.V\.A\.\s*19%\s*\$\s*([\d.,]+)`)
	isTotalRe    = regexp.MustCompile(`TOTAL\s*\$\s*([\d.,]+)`)
)

type issuedScan struct{}

// NewIssuedScan returns the grammar for issued invoices captured as scanned
// images and read through OCR.
func NewIssuedScan() Grammar { return &issuedScan{} }

func (g *issuedScan) ID() string { return "issued_scan" }

func (g *issuedScan) Extract(text string, seen SeenLines) (*entity.InvoiceRecord, error) {
	text = ApplyCorrections(g.ID(), text)

	rec := &entity.InvoiceRecord{
		Category:    constants.InvoicesIssued,
		InvoiceType: "FACTURA ELECTRONICA",
	}

	// OCR tends to glue the folio onto neighboring digits; the printed folio
	// is the trailing three digits when they form a plausible number.
	if m := isNumberRe.FindStringSubmatch(text); m != nil {
		raw := m[1]
		if len(raw) >= 3 {
			tail := raw[len(raw)-3:]
			if n, err := strconv.Atoi(tail); err == nil && n >= 100 && n <= 999 {
				rec.InvoiceNumber = tail
			}
		}
	}

	if isNameRe.MatchString(text) {
		rec.Issuer.Name = issuedScanIssuerName
	}
	if m := isRUTRe.FindStringSubmatch(text); m != nil {
		rec.Issuer.RUT = stripRUT(strings.ReplaceAll(m[1], " ", ""))
	}
	if m := isGiroRe.FindStringSubmatch(text); m != nil {
		rec.Issuer.EconomicActivity = strings.TrimSpace(m[1])
	}
	if m := isAddressRe.FindString(text); m != "" {
		rec.Issuer.Address = strings.TrimSpace(m)
	}
	if m := isEmailRe.FindStringSubmatch(text); m != nil {
		rec.Issuer.Email = strings.Replace(m[1], "GMAIL", "GMAIL.COM", 1)
	}
	if m := isPhoneRe.FindStringSubmatch(text); m != nil {
		rec.Issuer.Phone = strings.Join(digitsRe.FindAllString(m[1], -1), "")
	}
	if m := isDateRe.FindStringSubmatch(text); m != nil {
		date, err := NormalizeDate(m[1])
		if err != nil {
			return nil, err
		}
		rec.IssueDate = date
	}
	if m := isPayRe.FindStringSubmatch(text); m != nil {
		rec.PayMethod = strings.ToUpper(strings.TrimSpace(m[1]))
	}

	if loc := isBuyerNameRe.FindStringSubmatchIndex(text); loc != nil {
		buyer := &entity.Party{Name: strings.TrimSpace(text[loc[2]:loc[3]])}
		rest := text[loc[1]:]
		if m := isBuyerRUTRe.FindStringSubmatch(rest); m != nil {
			buyer.RUT = stripRUT(strings.ReplaceAll(m[1], " ", ""))
		}
		if m := isBuyerAddressRe.FindStringSubmatch(rest); m != nil {
			buyer.Address = strings.TrimSpace(m[1])
		}
		if m := isBuyerComunaRe.FindStringSubmatch(rest); m != nil {
			buyer.Commune = strings.TrimSpace(m[1])
		}
		rec.Buyer = buyer
	}

	if m := isItemRe.FindStringSubmatch(text); m != nil && !seen.Seen(m[0]) {
		qty, err := strconv.Atoi(m[1])
		if err == nil {
			unit, uerr := ParseAmount(m[2])
			sub, serr := ParseAmount(m[3])
			if uerr == nil && serr == nil {
				rec.Items = append(rec.Items, entity.LineItem{
					Description: "ARTICULOS DE PESCA",
					Quantity:    qty,
					UnitPrice:   unit,
					Subtotal:    sub,
				})
			}
		}
	}

	if m := isSubtotalRe.FindStringSubmatch(text); m != nil {
		v, err := MandatoryAmount("subtotal", m[1])
		if err != nil {
			return nil, err
		}
		rec.Subtotal = &v
	}
	if m := isTaxRe.FindStringSubmatch(text); m != nil {
		v, err := MandatoryAmount("tax", m[1])
		if err != nil {
			return nil, err
		}
		rec.Tax = &v
	}
	if m := isTotalRe.FindStringSubmatch(text); m != nil {
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
