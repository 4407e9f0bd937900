package wizard

import (
	"strconv"
	"strings"
)

// PreviewImage is a pending image as shown on the preview screen.
type PreviewImage struct {
	Token    string `json:"token"`
	Filename string `json:"filename"`
}

// Preview is the rendered listing preview: every derived value the preview
// screen shows, computed from the draft without touching any external
// service.
type Preview struct {
	Title    string         `json:"title"`
	Location string         `json:"location"`
	Images   []PreviewImage `json:"images"`

	AskingPrice    string `json:"asking_price"`
	AnnualRevenue  string `json:"annual_revenue"`
	SDE            string `json:"sde"`
	AnnualProfit   string `json:"annual_profit"`
	InventoryValue string `json:"inventory_value"`
	EquipmentValue string `json:"equipment_value"`
	MonthlyLease   string `json:"monthly_lease"`

	Employees     string `json:"employees"`
	FinancingType string `json:"financing_type"`

	ManualDescription string `json:"manual_description"`
	AIDescription     string `json:"ai_description"`
	DescriptionChoice string `json:"description_choice"`
}

// ListingTitle derives the headline: the industry when given, a confidential
// placeholder when the seller hides the business name, else the name itself.
func ListingTitle(f FormData) string {
	if f.Industry != "" {
		return titleCase(f.Industry) + " Business for Sale"
	}
	if f.HideBusinessName {
		return "Confidential Business Listing"
	}
	return f.BusinessName
}

func titleCase(s string) string {
	words := strings.Split(strings.ToLower(s), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// FormatCurrency renders a raw money field as "$1,234,567.89". Empty or
// unparsable input renders as the empty string, matching the preview screen
// leaving the line blank.
func FormatCurrency(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return ""
	}
	return "$" + groupThousands(v)
}

func groupThousands(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i:]
	}
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	b.WriteString(fracPart)
	return b.String()
}

// BuildPreview computes the preview screen values for a draft.
func BuildPreview(d Draft) Preview {
	images := make([]PreviewImage, len(d.Images))
	for i, img := range d.Images {
		images[i] = PreviewImage{Token: img.Token, Filename: img.Filename}
	}

	f := d.Form
	return Preview{
		Title:    ListingTitle(f),
		Location: CombinedLocation(f),
		Images:   images,

		AskingPrice:    FormatCurrency(f.AskingPrice),
		AnnualRevenue:  FormatCurrency(f.AnnualRevenue),
		SDE:            FormatCurrency(f.SDE),
		AnnualProfit:   FormatCurrency(f.AnnualProfit),
		InventoryValue: FormatCurrency(f.InventoryValue),
		EquipmentValue: FormatCurrency(f.EquipmentValue),
		MonthlyLease:   FormatCurrency(f.MonthlyLease),

		Employees:     f.Employees,
		FinancingType: strings.ReplaceAll(f.FinancingType, "-", " "),

		ManualDescription: f.BusinessDescription,
		AIDescription:     f.AIDescription,
		DescriptionChoice: f.DescriptionChoice,
	}
}
