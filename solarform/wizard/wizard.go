// Package wizard implements the five-step lead form as a state machine: it
// owns the draft values, the per-field error messages, the consent set and
// the submission flags. It does no I/O; callers persist State between
// requests and relay the Draft returned by BeginSubmit.
package wizard

import (
	"fmt"
	"math"
)

// Variant describes one flavour of the form.
type Variant struct {
	Name           string
	CollectAddress bool
	Consent        ConsentPolicy
}

// GeneralVariant collects the street address and asks for a single blanket
// consent.
func GeneralVariant() Variant {
	return Variant{Name: "general", CollectAddress: true, Consent: GeneralConsent{}}
}

// ProviderVariant skips the address and asks for consent per provider.
func ProviderVariant() Variant {
	return Variant{Name: "providers", CollectAddress: false, Consent: NewProviderConsent()}
}

// VariantByName returns the variant registered under name.
func VariantByName(name string) (Variant, error) {
	switch name {
	case "general", "":
		return GeneralVariant(), nil
	case "providers":
		return ProviderVariant(), nil
	}
	return Variant{}, fmt.Errorf("unknown form variant %q", name)
}

// Fields returns the input fields shown on step s for this variant, in page
// order. Consent is handled separately.
func (v Variant) Fields(s Step) []Field {
	switch s {
	case StepPersonal:
		if v.CollectAddress {
			return []Field{FieldName, FieldEmail, FieldAddress}
		}
		return []Field{FieldName, FieldEmail}
	case StepContact:
		return []Field{FieldPhone, FieldZip}
	case StepRoof:
		return []Field{FieldRoofShade, FieldTimeframe}
	case StepProperty:
		return []Field{FieldHomeowner, FieldElectricBill}
	}
	return nil
}

// HasField reports whether f is an input field of this variant.
func (v Variant) HasField(f Field) bool {
	for s := StepPersonal; s <= StepProperty; s++ {
		for _, sf := range v.Fields(s) {
			if sf == f {
				return true
			}
		}
	}
	return false
}

// Draft is a snapshot of everything the user entered.
type Draft struct {
	Name                  string
	Email                 string
	Address               string
	Phone                 string
	Zip                   string
	Homeowner             string
	ElectricBill          string
	RoofShade             string
	InstallationTimeframe string
	Consent               []string
	ConsentSummary        string
}

// FirstName is used to greet the user on the thank-you page.
func (d Draft) FirstName() string {
	for i, r := range d.Name {
		if r == ' ' {
			return d.Name[:i]
		}
	}
	return d.Name
}

// State is the serialisable form of a Wizard.
type State struct {
	Step       int
	Values     map[string]string
	Errors     map[string]string
	Consent    []string
	Submitting bool
	Submitted  bool
	Failure    string
	FirstName  string
}

// Wizard is the step controller and form state store for one draft. It is not
// safe for concurrent use.
type Wizard struct {
	variant    Variant
	step       Step
	values     map[Field]string
	errors     map[Field]string
	consent    []string
	submitting bool
	submitted  bool
	failure    string
	firstName  string
}

// New returns a wizard at step 1 with an empty draft.
func New(v Variant) *Wizard {
	return &Wizard{
		variant: v,
		step:    StepPersonal,
		values:  make(map[Field]string),
		errors:  make(map[Field]string),
		consent: []string{},
	}
}

// Restore rebuilds a wizard from a saved State. Unknown fields and out of
// range steps are dropped so a stale session can't break the invariants.
func Restore(v Variant, st State) *Wizard {
	w := New(v)
	if s := Step(st.Step); s.Valid() {
		w.step = s
	}
	for k, val := range st.Values {
		if f := Field(k); v.HasField(f) {
			w.values[f] = val
		}
	}
	for k, msg := range st.Errors {
		if msg != "" {
			w.errors[Field(k)] = msg
		}
	}
	for _, id := range st.Consent {
		if next, err := v.Consent.Toggle(w.consent, id, true); err == nil {
			w.consent = next
		}
	}
	w.submitting = st.Submitting
	w.submitted = st.Submitted
	w.failure = st.Failure
	w.firstName = st.FirstName
	return w
}

// State returns a copy of the wizard's state for persistence.
func (w *Wizard) State() State {
	st := State{
		Step:       int(w.step),
		Values:     make(map[string]string, len(w.values)),
		Errors:     make(map[string]string, len(w.errors)),
		Consent:    append([]string{}, w.consent...),
		Submitting: w.submitting,
		Submitted:  w.submitted,
		Failure:    w.failure,
		FirstName:  w.firstName,
	}
	for f, val := range w.values {
		st.Values[string(f)] = val
	}
	for f, msg := range w.errors {
		st.Errors[string(f)] = msg
	}
	return st
}

func (w *Wizard) Variant() Variant { return w.variant }
func (w *Wizard) Step() Step { return w.step }
func (w *Wizard) Submitting() bool { return w.submitting }
func (w *Wizard) Submitted() bool { return w.submitted }
func (w *Wizard) Value(f Field) string { return w.values[f] }
func (w *Wizard) Error(f Field) string { return w.errors[f] }

// FirstName greets the user on the thank-you page. It is the only part of
// the draft kept after a successful submission.
func (w *Wizard) FirstName() string {
	if w.submitted {
		return w.firstName
	}
	return w.Draft().FirstName()
}

// Failure is the message of the last failed submission attempt, if any.
func (w *Wizard) Failure() string { return w.failure }

// Errors returns a copy of the current field error messages.
func (w *Wizard) Errors() map[Field]string {
	errs := make(map[Field]string, len(w.errors))
	for f, msg := range w.errors {
		errs[f] = msg
	}
	return errs
}

// Consent returns a copy of the current consent set.
func (w *Wizard) Consent() []string {
	return append([]string{}, w.consent...)
}

// Progress is the completion percentage shown in the header.
func (w *Wizard) Progress() float64 {
	if w.submitted {
		return 100
	}
	return math.Min(100, float64(w.step-1)/NumSteps*100)
}

func (w *Wizard) editable() error {
	if w.submitted {
		return ErrLocked
	}
	if w.submitting {
		return ErrSubmitting
	}
	return nil
}

// Set stores a field value. Changing a value clears its error message.
// Enum fields only accept "" or one of their options; a rejected choice
// empties the field so the step can't advance on the previous value.
func (w *Wizard) Set(f Field, value string) error {
	if err := w.editable(); err != nil {
		return err
	}
	if !w.variant.HasField(f) {
		return fmt.Errorf("%w: %q", ErrUnknownField, f)
	}
	if isEnum(f) && value != "" && !isOption(f, value) {
		verr := &ValidationError{Field: f, Message: invalidChoiceMessage}
		delete(w.values, f)
		w.errors[f] = verr.Message
		return verr
	}
	if w.values[f] != value {
		delete(w.errors, f)
	}
	w.values[f] = value
	return nil
}

// Toggle adds or removes a consent identifier according to the variant's
// consent policy.
func (w *Wizard) Toggle(id string, on bool) error {
	if err := w.editable(); err != nil {
		return err
	}
	next, err := w.variant.Consent.Toggle(w.consent, id, on)
	if err != nil {
		return err
	}
	w.consent = next
	delete(w.errors, FieldConsent)
	return nil
}

// validateStep returns the first failing rule of step s, or nil.
func (w *Wizard) validateStep(s Step) *ValidationError {
	if s == StepConsent {
		if !w.variant.Consent.Valid(w.consent) {
			return &ValidationError{Field: FieldConsent, Message: w.variant.Consent.Message()}
		}
		return nil
	}
	for _, r := range stepRules[s] {
		if verr := checkValue(r.field, w.values[r.field], r.tags); verr != nil {
			return verr
		}
	}
	return nil
}

func (w *Wizard) stepFields(s Step) []Field {
	if s == StepConsent {
		return []Field{FieldConsent}
	}
	return w.variant.Fields(s)
}

// Next advances one step if the current step's fields are valid. On failure
// the field error is recorded and the step index is left unchanged.
func (w *Wizard) Next() error {
	if err := w.editable(); err != nil {
		return err
	}
	if w.step >= StepProperty {
		return ErrNoNextStep
	}
	if verr := w.validateStep(w.step); verr != nil {
		w.errors[verr.Field] = verr.Message
		return verr
	}
	for _, f := range w.stepFields(w.step) {
		delete(w.errors, f)
	}
	w.step++
	return nil
}

// Prev goes back one step without validation.
func (w *Wizard) Prev() error {
	if err := w.editable(); err != nil {
		return err
	}
	if w.step <= StepPersonal {
		return ErrFirstStep
	}
	w.step--
	return nil
}

// Draft returns the current values as a Draft.
func (w *Wizard) Draft() Draft {
	d := Draft{
		Name:                  w.values[FieldName],
		Email:                 w.values[FieldEmail],
		Phone:                 w.values[FieldPhone],
		Zip:                   w.values[FieldZip],
		Homeowner:             w.values[FieldHomeowner],
		ElectricBill:          w.values[FieldElectricBill],
		RoofShade:             w.values[FieldRoofShade],
		InstallationTimeframe: w.values[FieldTimeframe],
		Consent:               w.Consent(),
		ConsentSummary:        w.variant.Consent.Summary(w.consent),
	}
	if w.variant.CollectAddress {
		d.Address = w.values[FieldAddress]
	}
	return d
}

// BeginSubmit validates every step and, if all pass, marks the wizard as
// submitting and returns the draft to relay. On a validation failure the
// wizard moves back to the first failing step.
func (w *Wizard) BeginSubmit() (Draft, error) {
	if err := w.editable(); err != nil {
		return Draft{}, err
	}
	if w.step != StepProperty {
		return Draft{}, ErrNotFinalStep
	}
	for s := StepPersonal; s <= StepProperty; s++ {
		if verr := w.validateStep(s); verr != nil {
			w.errors[verr.Field] = verr.Message
			w.step = s
			return Draft{}, verr
		}
	}
	w.submitting = true
	w.failure = ""
	return w.Draft(), nil
}

// Complete moves a pending submission to the terminal Submitted state. The
// draft is dropped; only the first name is kept.
func (w *Wizard) Complete() error {
	if w.submitted {
		return ErrLocked
	}
	if !w.submitting {
		return ErrNotSubmitting
	}
	w.firstName = w.Draft().FirstName()
	w.values = make(map[Field]string)
	w.errors = make(map[Field]string)
	w.consent = []string{}
	w.submitting = false
	w.submitted = true
	w.failure = ""
	return nil
}

// Fail ends a pending submission unsuccessfully. The user stays on the last
// step and may submit again.
func (w *Wizard) Fail(msg string) error {
	if w.submitted {
		return ErrLocked
	}
	if !w.submitting {
		return ErrNotSubmitting
	}
	w.submitting = false
	w.failure = msg
	return nil
}
