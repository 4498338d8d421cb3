package form

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"testing"

	"github.com/solarutah/solarform/templates"
	"golang.org/x/net/html"
)

var allElementTypes = []ElementType{CheckboxInput, EmailInput, TelInput, TextInput, Select}

func testPage() Page {
	testElements := make([]Element, len(allElementTypes))
	for idx := range allElementTypes {
		elemType := allElementTypes[idx]
		elem := Element{
			ID:          fmt.Sprintf("id%s", elemType),
			Name:        string(elemType),
			Label:       fmt.Sprintf("Element type %s", elemType),
			Description: fmt.Sprintf("An element of type %s", elemType),
			Placeholder: fmt.Sprintf("Enter %s", elemType),
			Type:        elemType,
			Required:    idx%2 == 0,
		}
		if elemType == Select || elemType == CheckboxInput {
			elem.Options = []Option{
				{Value: fmt.Sprintf("%s one", elemType), Label: "Option one"},
				{Value: fmt.Sprintf("%s two", elemType), Label: "Option two", Checked: true},
			}
		}
		testElements[idx] = elem
	}
	testElements[len(testElements)-1].Error = "Please choose one of the listed options"

	return Page{
		Title:       "Test page",
		Description: "One of each element supported by the form",
		Elements:    testElements,
	}
}

func renderPage(t *testing.T, page Page, final bool) *html.Node {
	t.Helper()
	// render form and check if it's valid HTML
	tmpl := template.New("layout")
	tmpl, err := tmpl.Parse(templates.Layout)
	if err != nil {
		t.Fatalf("Failed to parse Layout template: %s", err.Error())
	}
	tmpl, err = tmpl.Parse(templates.Progress)
	if err != nil {
		t.Fatalf("Failed to parse Progress template: %s", err.Error())
	}
	tmpl, err = tmpl.Parse(templates.Form)
	if err != nil {
		t.Fatalf("Failed to parse Form template: %s", err.Error())
	}

	data := make(map[string]interface{})
	data["page"] = page
	data["step"] = 2
	data["steps"] = 5
	data["progress"] = 20
	data["final"] = final
	data["failure"] = "There was an error submitting your form. Please try again."

	formHTML := new(bytes.Buffer)
	if err := tmpl.Execute(formHTML, data); err != nil {
		t.Fatalf("Failed to render form: %v", err.Error())
	}

	doc, err := html.Parse(formHTML)
	if err != nil {
		t.Fatalf("Bad HTML when rendering form: %v", err.Error())
	}
	return doc
}

func findAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var found []*html.Node
	if match(n) {
		found = append(found, n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		found = append(found, findAll(c, match)...)
	}
	return found
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func tagged(tag string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == tag
	}
}

func TestFormElementsHTML(t *testing.T) {
	doc := renderPage(t, testPage(), false)

	inputs := findAll(doc, tagged("input"))
	types := make(map[string]int)
	for _, in := range inputs {
		typ, _ := attr(in, "type")
		types[typ]++
	}
	// one honeypot text input plus the text element
	if types["text"] != 2 {
		t.Errorf("Expected 2 text inputs, got %d", types["text"])
	}
	for _, typ := range []string{"email", "tel"} {
		if types[typ] != 1 {
			t.Errorf("Expected 1 %s input, got %d", typ, types[typ])
		}
	}
	if types["checkbox"] != 2 {
		t.Errorf("Expected 2 checkbox inputs, got %d", types["checkbox"])
	}
	if len(types) != 4 {
		t.Errorf("Unexpected input types rendered: %v", types)
	}
	for _, in := range inputs {
		if _, ok := attr(in, "readonly"); ok {
			t.Errorf("Input %q rendered read only", in.Data)
		}
	}

	selects := findAll(doc, tagged("select"))
	if len(selects) != 1 {
		t.Fatalf("Expected 1 select element, got %d", len(selects))
	}
	options := findAll(selects[0], tagged("option"))
	// placeholder option plus two choices
	if len(options) != 3 {
		t.Fatalf("Expected 3 options, got %d", len(options))
	}
	if _, ok := attr(options[2], "selected"); !ok {
		t.Error("Checked option is not selected")
	}
	if _, ok := attr(options[1], "selected"); ok {
		t.Error("Unchecked option is selected")
	}

	errs := findAll(doc, func(n *html.Node) bool {
		class, _ := attr(n, "class")
		return n.Type == html.ElementNode && class == "error"
	})
	if len(errs) != 1 {
		t.Errorf("Expected 1 field error, got %d", len(errs))
	}
	alerts := findAll(doc, func(n *html.Node) bool {
		role, _ := attr(n, "role")
		return role == "alert"
	})
	if len(alerts) != 1 {
		t.Errorf("Expected failure banner, got %d alerts", len(alerts))
	}
}

func TestFormButtons(t *testing.T) {
	buttonValues := func(doc *html.Node) string {
		values := make([]string, 0)
		for _, b := range findAll(doc, tagged("button")) {
			v, _ := attr(b, "value")
			values = append(values, v)
		}
		return strings.Join(values, ",")
	}

	if got := buttonValues(renderPage(t, testPage(), false)); got != "next,back" {
		t.Errorf("Unexpected buttons on intermediate page: %s", got)
	}
	if got := buttonValues(renderPage(t, testPage(), true)); got != "submit,back" {
		t.Errorf("Unexpected buttons on final page: %s", got)
	}
}

func TestPageElement(t *testing.T) {
	page := testPage()
	elem, ok := page.Element("email")
	if !ok {
		t.Fatal("Element lookup failed")
	}
	if elem.Type != EmailInput {
		t.Errorf("Unexpected element type %q", elem.Type)
	}
	if _, ok := page.Element("missing"); ok {
		t.Error("Lookup of missing element succeeded")
	}
	for _, e := range page.Elements {
		want := e.Type == Select || e.Type == CheckboxInput
		if e.IsChoice() != want {
			t.Errorf("IsChoice of %s: got %v", e.Type, e.IsChoice())
		}
	}
}
