package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Internship types that drive the compensation section.
const (
	InternshipTypeStipend = "STIPEND"
	InternshipTypePaid    = "PAID"
	InternshipTypeUnpaid  = "FREE"
)

const dateLayout = "January 2, 2006"

// Compensation describes stipend or cost details printed on the letter.
type Compensation struct {
	Amount          float64
	Currency        string
	Frequency       string
	Benefits        []string
	AdditionalCosts []Cost
}

// Cost is a single line item in a paid internship.
type Cost struct {
	Description string
	Amount      float64
	Currency    string
}

// Contact is the signatory shown in the signature block.
type Contact struct {
	Name  string
	Email string
	Phone string
}

// OfferLetter is everything the renderer prints.
type OfferLetter struct {
	CandidateName  string
	CandidateEmail string
	Position       string
	CompanyName    string
	Location       string
	StartDate      time.Time
	Duration       string
	InternshipType string
	Compensation   Compensation
	JobDescription string
	Qualifications []string
	NoticePeriod   string
	Contact        Contact
}

// OfferLetterRenderer renders offer letters into A4 PDF documents.
type OfferLetterRenderer struct {
	now func() time.Time
}

// NewOfferLetterRenderer constructs a renderer.
func NewOfferLetterRenderer() *OfferLetterRenderer {
	return &OfferLetterRenderer{now: time.Now}
}

// Render lays out the letter and returns the PDF bytes.
func (r *OfferLetterRenderer) Render(letter OfferLetter) ([]byte, error) {
	if strings.TrimSpace(letter.CandidateName) == "" || strings.TrimSpace(letter.Position) == "" {
		return nil, fmt.Errorf("offer letter requires candidate name and position")
	}
	today := r.now()
	company := fallback(letter.CompanyName, "Company Name")
	location := fallback(letter.Location, "Location")

	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetMargins(18, 15, 18)
	doc.SetAutoPageBreak(true, 18)
	doc.AddPage()
	tr := doc.UnicodeTranslatorFromDescriptor("")

	// Header
	doc.SetFont("Helvetica", "B", 20)
	doc.SetTextColor(0, 0, 0)
	doc.CellFormat(0, 10, tr(strings.ToUpper(company)), "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
	doc.SetTextColor(128, 128, 128)
	doc.CellFormat(0, 5, tr(location), "", 1, "R", false, 0, "")
	doc.CellFormat(0, 5, today.Format(dateLayout), "", 1, "R", false, 0, "")
	y := doc.GetY() + 2
	doc.Line(18, y, 192, y)
	doc.Ln(6)

	doc.SetFont("Helvetica", "", 12)
	doc.SetTextColor(0, 0, 0)
	doc.CellFormat(0, 6, tr("To: "+letter.CandidateName), "", 1, "L", false, 0, "")
	doc.CellFormat(0, 6, tr("Email: "+letter.CandidateEmail), "", 1, "L", false, 0, "")
	doc.Ln(4)

	doc.SetFont("Helvetica", "BU", 16)
	doc.SetTextColor(29, 78, 216)
	doc.CellFormat(0, 8, tr("OFFER LETTER – "+strings.ToUpper(letter.Position)), "", 1, "L", false, 0, "")
	doc.Ln(4)

	body(doc)
	doc.CellFormat(0, 6, tr(fmt.Sprintf("Dear %s,", letter.CandidateName)), "", 1, "L", false, 0, "")
	doc.Ln(2)
	doc.MultiCell(0, 6, tr(fmt.Sprintf("We are delighted to offer you the position of %s at %s. Your internship is scheduled to commence on %s.",
		letter.Position, company, letter.StartDate.Format(dateLayout))), "", "J", false)
	doc.Ln(4)

	section(doc, "POSITION DETAILS")
	bullet(doc, tr, "Job Title: "+letter.Position)
	bullet(doc, tr, "Reporting Manager: "+fallback(letter.Contact.Name, "To be assigned"))
	bullet(doc, tr, "Location: "+location)
	bullet(doc, tr, "Start Date: "+letter.StartDate.Format(dateLayout))
	bullet(doc, tr, "Duration: "+fallback(letter.Duration, "As discussed"))
	doc.Ln(3)

	section(doc, "COMPENSATION DETAILS")
	comp := letter.Compensation
	switch strings.ToUpper(letter.InternshipType) {
	case InternshipTypeStipend:
		bullet(doc, tr, fmt.Sprintf("Stipend: %s %s per %s", formatAmount(comp.Amount), comp.Currency, strings.ToLower(fallback(comp.Frequency, "month"))))
		if len(comp.Benefits) > 0 {
			bullet(doc, tr, "Additional Benefits:")
			for _, b := range comp.Benefits {
				subItem(doc, tr, b)
			}
		}
	case InternshipTypePaid:
		bullet(doc, tr, "This is a paid internship.")
		for _, cost := range comp.AdditionalCosts {
			subItem(doc, tr, fmt.Sprintf("%s: %s %s", cost.Description, formatAmount(cost.Amount), cost.Currency))
		}
	default:
		bullet(doc, tr, "This is an unpaid internship.")
	}
	doc.Ln(3)

	if strings.TrimSpace(letter.JobDescription) != "" {
		section(doc, "KEY RESPONSIBILITIES")
		for _, line := range strings.Split(letter.JobDescription, "\n") {
			if item := strings.TrimSpace(line); item != "" {
				bullet(doc, tr, item)
			}
		}
		doc.Ln(3)
	}

	if len(letter.Qualifications) > 0 {
		section(doc, "REQUIRED QUALIFICATIONS")
		for _, q := range letter.Qualifications {
			bullet(doc, tr, q)
		}
		doc.Ln(3)
	}

	section(doc, "TERMS AND CONDITIONS")
	numbered(doc, tr, "1. This offer is contingent upon successful completion of any pre-internship requirements.")
	numbered(doc, tr, "2. Interns are expected to adhere to all company policies.")
	numbered(doc, tr, fmt.Sprintf("3. The internship may be terminated by either party with %s notice.", fallback(letter.NoticePeriod, "2 weeks")))
	doc.Ln(3)

	section(doc, "ACCEPTANCE")
	doc.MultiCell(0, 6, tr(fmt.Sprintf("Please sign and return this offer letter by %s to confirm your acceptance.", today.AddDate(0, 0, 7).Format(dateLayout))), "", "L", false)
	doc.Ln(8)
	doc.CellFormat(0, 6, "We look forward to welcoming you aboard!", "", 1, "L", false, 0, "")
	doc.Ln(12)
	doc.CellFormat(0, 6, "Sincerely,", "", 1, "L", false, 0, "")
	doc.Ln(4)
	doc.CellFormat(0, 6, "___________________________", "", 1, "L", false, 0, "")
	doc.CellFormat(0, 6, tr(fallback(letter.Contact.Name, "HR Manager")), "", 1, "L", false, 0, "")
	doc.CellFormat(0, 6, tr(company), "", 1, "L", false, 0, "")
	doc.CellFormat(0, 6, tr("Email: "+fallback(letter.Contact.Email, "hr@company.com")), "", 1, "L", false, 0, "")
	doc.CellFormat(0, 6, tr("Phone: "+letter.Contact.Phone), "", 1, "L", false, 0, "")

	buf := &bytes.Buffer{}
	if err := doc.Output(buf); err != nil {
		return nil, fmt.Errorf("render offer letter: %w", err)
	}
	return buf.Bytes(), nil
}

func section(doc *gofpdf.Fpdf, title string) {
	doc.SetFont("Helvetica", "B", 12)
	doc.SetTextColor(29, 78, 216)
	doc.CellFormat(0, 7, title, "", 1, "L", false, 0, "")
	body(doc)
}

func body(doc *gofpdf.Fpdf) {
	doc.SetFont("Helvetica", "", 11)
	doc.SetTextColor(0, 0, 0)
}

func bullet(doc *gofpdf.Fpdf, tr func(string) string, text string) {
	doc.SetX(26)
	doc.MultiCell(0, 6, tr("• "+text), "", "L", false)
}

func subItem(doc *gofpdf.Fpdf, tr func(string) string, text string) {
	doc.SetX(32)
	doc.MultiCell(0, 6, tr("- "+text), "", "L", false)
}

func numbered(doc *gofpdf.Fpdf, tr func(string) string, text string) {
	doc.SetX(26)
	doc.MultiCell(0, 6, tr(text), "", "L", false)
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return value
}

func formatAmount(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
