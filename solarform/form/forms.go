package form

const (
	CheckboxInput ElementType = "checkbox"
	EmailInput    ElementType = "email"
	TelInput      ElementType = "tel"
	TextInput     ElementType = "text"
	Select        ElementType = "select"
)

// ElementType defines the type of a form input element:
// https://developer.mozilla.org/en-US/docs/Web/HTML/Element/input
type ElementType string

// Form is the top level type for defining the web form for user input.
type Form struct {
	// The Name appears at the top of all pages in the form and in the HTML
	// title.
	Name string
	// The Description appears under the Name on every page.
	Description string
	// Each Page creates a form page with the included elements. The last page
	// contains the submit button.
	Pages []Page
}

// Page represents a single page of a multi-page web form.
type Page struct {
	// Title is the heading of the page.
	Title string
	// The Description appears under the title. Use it to provide information
	// about the elements of the specific page.
	Description string
	// Each element creates an input field on the form.
	Elements []Element
}

// Option is one choice of a select, radio or checkbox group element.
type Option struct {
	Value string
	Label string
	// Checked marks the option as selected when rendered.
	Checked bool
}

// Element represents a single form element (field).
type Element struct {
	// ID of the element. Must be unique.
	ID string
	// Name of the element. Used as key to retrieve the value on submission.
	Name string
	// The Label of the field as it appears on the rendered form.
	Label string
	// If set, the field will be filled with the given value when rendered.
	Value string
	// Placeholder text shown in empty input fields.
	Placeholder string
	// Whether the element represents a required form field.
	Required bool
	// An optional description for the field. If set will be displayed under
	// the input field. Can be used to provide extra information such as input
	// constraints.
	Description string
	// Type is the HTML input element type.
	Type ElementType
	// Options holds the permissible values of select elements and the boxes
	// of checkbox groups.
	Options []Option
	// Error is the validation message shown under the field.
	Error string
}

// IsChoice reports whether the element is rendered as a group of options.
func (e Element) IsChoice() bool {
	switch e.Type {
	case Select, CheckboxInput:
		return len(e.Options) > 0
	}
	return false
}

// Element returns the element with the given name and whether it exists.
func (p Page) Element(name string) (Element, bool) {
	for _, e := range p.Elements {
		if e.Name == name {
			return e, true
		}
	}
	return Element{}, false
}
