package solarform

import (
	"github.com/solarutah/solarform/solarform/form"
	"github.com/solarutah/solarform/solarform/wizard"
)

const (
	formName        = "Solar Energy Savings Calculator"
	formDescription = "Get a personalized quote from certified local installers"
)

type fieldDef struct {
	label       string
	placeholder string
	typ         form.ElementType
	required    bool
}

var fieldDefs = map[wizard.Field]fieldDef{
	wizard.FieldName:         {"Full Name", "Enter your full name", form.TextInput, true},
	wizard.FieldEmail:        {"Email Address", "email@example.com", form.EmailInput, true},
	wizard.FieldAddress:      {"Address", "Enter your address", form.TextInput, false},
	wizard.FieldPhone:        {"Phone Number", "(555) 555-5555", form.TelInput, true},
	wizard.FieldZip:          {"ZIP Code", "Enter ZIP code", form.TextInput, true},
	wizard.FieldRoofShade:    {"Roof Shade Conditions", "How much shade does your roof get?", form.Select, true},
	wizard.FieldTimeframe:    {"Installation Timeline", "When are you looking to install solar?", form.Select, true},
	wizard.FieldHomeowner:    {"Home Ownership Status", "Are you a homeowner?", form.Select, true},
	wizard.FieldElectricBill: {"Average Monthly Electric Bill", "Select your average bill", form.Select, true},
}

var stepIntros = map[wizard.Step]string{
	wizard.StepRoof:    "The amount of shade on your roof affects solar panel efficiency. South-facing roofs with minimal shade typically produce the most energy.",
	wizard.StepConsent: "Your privacy is important to us. The information you provide will be used exclusively to contact you about your interest in solar energy services.",
}

var consentNotes = []string{
	"Your data will be handled according to our privacy policy",
	"We will only use your information to contact you about solar energy services",
	"A representative will contact you within the next business days",
	"You can cancel your consent at any time",
}

// summaryItem is one line of the review box on the last step.
type summaryItem struct {
	Label string
	Value string
}

// buildForm returns the five empty pages of the given variant.
func buildForm(v wizard.Variant) form.Form {
	f := form.Form{Name: formName, Description: formDescription}
	for s := wizard.StepPersonal; s <= wizard.StepProperty; s++ {
		page := form.Page{Title: s.Title(), Description: s.Subtitle()}
		if s == wizard.StepConsent {
			page.Elements = []form.Element{consentElement(v)}
		}
		for _, field := range v.Fields(s) {
			def := fieldDefs[field]
			elem := form.Element{
				ID:          string(field),
				Name:        string(field),
				Label:       def.label,
				Placeholder: def.placeholder,
				Type:        def.typ,
				Required:    def.required,
			}
			for _, o := range wizard.Options(field) {
				elem.Options = append(elem.Options, form.Option{Value: o.Value, Label: o.Label})
			}
			page.Elements = append(page.Elements, elem)
		}
		f.Pages = append(f.Pages, page)
	}
	return f
}

func consentElement(v wizard.Variant) form.Element {
	elem := form.Element{
		ID:       "consent",
		Name:     string(wizard.FieldConsent),
		Type:     form.CheckboxInput,
		Required: true,
	}
	if v.CollectAddress {
		elem.Label = "I authorize contact"
	} else {
		elem.Label = "Select the providers you agree to be contacted by"
	}
	for _, p := range v.Consent.Options() {
		elem.Options = append(elem.Options, form.Option{Value: p.ID, Label: p.Name})
	}
	return elem
}

// currentPage fills the page of the wizard's current step with the entered
// values, selections and error messages.
func currentPage(wz *wizard.Wizard) form.Page {
	page := buildForm(wz.Variant()).Pages[wz.Step()-1]
	consent := make(map[string]bool)
	for _, id := range wz.Consent() {
		consent[id] = true
	}
	for idx := range page.Elements {
		elem := &page.Elements[idx]
		field := wizard.Field(elem.Name)
		elem.Error = wz.Error(field)
		if field == wizard.FieldConsent {
			for o := range elem.Options {
				elem.Options[o].Checked = consent[elem.Options[o].Value]
			}
			continue
		}
		elem.Value = wz.Value(field)
		for o := range elem.Options {
			elem.Options[o].Checked = elem.Options[o].Value == elem.Value
		}
	}
	return page
}

// summary lists what the user entered, shown on the last step for review.
func summary(wz *wizard.Wizard) []summaryItem {
	d := wz.Draft()
	items := []summaryItem{
		{"Name", d.Name},
		{"Email", d.Email},
	}
	if wz.Variant().CollectAddress {
		items = append(items, summaryItem{"Address", d.Address})
	}
	return append(items,
		summaryItem{"Phone", d.Phone},
		summaryItem{"ZIP Code", d.Zip},
		summaryItem{"Roof Shade", d.RoofShade},
		summaryItem{"Timeline", d.InstallationTimeframe},
		summaryItem{"Contact", d.ConsentSummary},
	)
}
