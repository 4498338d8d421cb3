package wizard

// Field names double as the HTML input names and the keys of the relayed
// payload.
type Field string

const (
	FieldName         Field = "name"
	FieldEmail        Field = "email"
	FieldAddress      Field = "address"
	FieldPhone        Field = "phone"
	FieldZip          Field = "zip"
	FieldRoofShade    Field = "roofShade"
	FieldTimeframe    Field = "installationTimeframe"
	FieldConsent      Field = "consentedProviders"
	FieldHomeowner    Field = "homeowner"
	FieldElectricBill Field = "electricBill"
)

// Step is a 1-based index into the five pages of the wizard.
type Step int

const (
	StepPersonal Step = iota + 1
	StepContact
	StepRoof
	StepConsent
	StepProperty
)

// NumSteps is the number of ordinary (non-terminal) steps.
const NumSteps = 5

var stepTitles = map[Step][2]string{
	StepPersonal: {"Personal Information", "Let's start with your basic information"},
	StepContact:  {"Contact Details", "How can we reach you?"},
	StepRoof:     {"Roof & Installation", "Tell us about your roof conditions and timeline"},
	StepConsent:  {"Contact Authorization", "Consent to be contacted by a representative"},
	StepProperty: {"Property Details", "Final information to complete your quote"},
}

// Title returns the heading shown on the step's page.
func (s Step) Title() string {
	return stepTitles[s][0]
}

// Subtitle returns the short line under the step heading.
func (s Step) Subtitle() string {
	return stepTitles[s][1]
}

// Valid reports whether s is one of the five ordinary steps.
func (s Step) Valid() bool {
	return s >= StepPersonal && s <= StepProperty
}

// Option is a permissible value of a select field together with its label.
type Option struct {
	Value string
	Label string
}

var (
	RoofShadeOptions = []Option{
		{"No Shade", "No Shade - Full Sun All Day"},
		{"Light Shade", "Light Shade - Some Trees or Buildings"},
		{"Partial Shade", "Partial Shade - Shaded Part of the Day"},
		{"Heavy Shade", "Heavy Shade - Surrounded by Tall Trees/Buildings"},
		{"Unsure", "I'm Not Sure"},
	}
	TimeframeOptions = []Option{
		{"Immediately", "As Soon as Possible"},
		{"1-3 Months", "Within 1-3 Months"},
		{"3-6 Months", "Within 3-6 Months"},
		{"6-12 Months", "Within 6-12 Months"},
		{"Just Researching", "Just Researching for Now"},
	}
	HomeownerOptions = []Option{
		{"Yes", "Yes"},
		{"No", "No"},
	}
	ElectricBillOptions = []Option{
		{"Under $100", "Under $100"},
		{"$100-$200", "$100-$200"},
		{"$200-$300", "$200-$300"},
		{"$300-$400", "$300-$400"},
		{"$400+", "$400+"},
	}
)

// Options returns the fixed option set of an enum-valued field, or nil for
// free-text fields.
func Options(f Field) []Option {
	switch f {
	case FieldRoofShade:
		return RoofShadeOptions
	case FieldTimeframe:
		return TimeframeOptions
	case FieldHomeowner:
		return HomeownerOptions
	case FieldElectricBill:
		return ElectricBillOptions
	}
	return nil
}

func isOption(f Field, value string) bool {
	for _, o := range Options(f) {
		if o.Value == value {
			return true
		}
	}
	return false
}

// Provider is an installer the user may authorise to contact them.
type Provider struct {
	ID   string
	Name string
}

// Providers is the fixed provider catalog offered by the per-provider
// consent variant.
var Providers = []Provider{
	{ID: "sunrun", Name: "Sunrun Solar"},
	{ID: "tesla", Name: "Tesla Energy"},
	{ID: "sunpower", Name: "SunPower"},
	{ID: "vivint", Name: "Vivint Solar"},
	{ID: "momentum", Name: "Momentum Solar"},
}
