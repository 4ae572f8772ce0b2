package core

import (
	"strings"

	"github.com/google/uuid"
)

// MaxNameLength bounds every free-text name/title field.
const MaxNameLength = 200

// Records are values. Stores hand out copies and the only mutations (paid,
// completed) go through WithPaid/WithCompleted, whose result the caller
// persists explicitly.
type (
	Bill struct {
		ID        string       `json:"id"`
		Name      string       `json:"name"`
		Amount    Money        `json:"amount"`
		DueDate   Date         `json:"due_date"`
		Recurring bool         `json:"recurring"`
		Category  BillCategory `json:"category"`
		Paid      bool         `json:"paid"`
	}

	Vehicle struct {
		ID           string `json:"id"`
		Name         string `json:"name"`
		Model        string `json:"model"`
		Year         int    `json:"year"`
		LicensePlate string `json:"license_plate"`
	}

	// ServiceRecord is one maintenance visit for a vehicle.
	ServiceRecord struct {
		ID          string `json:"id"`
		VehicleID   string `json:"vehicle_id"`
		Date        Date   `json:"date"`
		Description string `json:"description"`
		Cost        Money  `json:"cost"`
		Location    string `json:"location"`
	}

	Subscription struct {
		ID              string       `json:"id"`
		Name            string       `json:"name"`
		Cost            Money        `json:"cost"`
		Cycle           BillingCycle `json:"billing_cycle"`
		NextBillingDate Date         `json:"next_billing_date"`
	}

	// PasswordEntry is credential metadata. It deliberately has no field for
	// the secret itself.
	PasswordEntry struct {
		ID          string           `json:"id"`
		Title       string           `json:"title"`
		Username    string           `json:"username"`
		Category    PasswordCategory `json:"category"`
		LastUpdated Date             `json:"last_updated"`
		Strength    PasswordStrength `json:"strength"`
	}

	Task struct {
		ID        string `json:"id"`
		Title     string `json:"title"`
		Completed bool   `json:"completed"`
		// DueLabel is free text ("Today", "May 20"), not a date.
		DueLabel string `json:"due_label"`
	}
)

// NewID returns a fresh record identity.
func NewID() string {
	return uuid.NewString()
}

// NewBill builds a validated, unpaid bill with a fresh identity.
func NewBill(name string, amount Money, due Date, recurring bool, category BillCategory) (Bill, error) {
	b := Bill{
		ID:        NewID(),
		Name:      strings.TrimSpace(name),
		Amount:    amount,
		DueDate:   due,
		Recurring: recurring,
		Category:  category,
	}
	if err := b.Validate(); err != nil {
		return Bill{}, err
	}
	return b, nil
}

func NewVehicle(name, model string, year int, plate string) (Vehicle, error) {
	v := Vehicle{
		ID:           NewID(),
		Name:         strings.TrimSpace(name),
		Model:        strings.TrimSpace(model),
		Year:         year,
		LicensePlate: strings.TrimSpace(plate),
	}
	if err := v.Validate(); err != nil {
		return Vehicle{}, err
	}
	return v, nil
}

// NewServiceRecord builds a validated service record for vehicleID.
func NewServiceRecord(vehicleID string, date Date, description string, cost Money, location string) (ServiceRecord, error) {
	r := ServiceRecord{
		ID:          NewID(),
		VehicleID:   strings.TrimSpace(vehicleID),
		Date:        date,
		Description: strings.TrimSpace(description),
		Cost:        cost,
		Location:    strings.TrimSpace(location),
	}
	if err := r.Validate(); err != nil {
		return ServiceRecord{}, err
	}
	return r, nil
}

func NewSubscription(name string, cost Money, cycle BillingCycle, next Date) (Subscription, error) {
	s := Subscription{
		ID:              NewID(),
		Name:            strings.TrimSpace(name),
		Cost:            cost,
		Cycle:           cycle,
		NextBillingDate: next,
	}
	if err := s.Validate(); err != nil {
		return Subscription{}, err
	}
	return s, nil
}

func NewPasswordEntry(title, username string, category PasswordCategory, lastUpdated Date, strength PasswordStrength) (PasswordEntry, error) {
	p := PasswordEntry{
		ID:          NewID(),
		Title:       strings.TrimSpace(title),
		Username:    strings.TrimSpace(username),
		Category:    category,
		LastUpdated: lastUpdated,
		Strength:    strength,
	}
	if err := p.Validate(); err != nil {
		return PasswordEntry{}, err
	}
	return p, nil
}

func NewTask(title, dueLabel string) (Task, error) {
	t := Task{
		ID:       NewID(),
		Title:    strings.TrimSpace(title),
		DueLabel: strings.TrimSpace(dueLabel),
	}
	if err := t.Validate(); err != nil {
		return Task{}, err
	}
	return t, nil
}

func validateName(s string) error {
	if len(strings.TrimSpace(s)) == 0 {
		return ErrEmptyName
	}
	if len(s) > MaxNameLength {
		return ErrNameTooLong
	}
	return nil
}

func (b Bill) Validate() error {
	if err := validateName(b.Name); err != nil {
		return err
	}
	if err := b.Amount.Validate(); err != nil {
		return err
	}
	if err := b.DueDate.Validate(); err != nil {
		return err
	}
	return b.Category.Validate()
}

// WithPaid returns a copy of the bill with the paid flag set.
func (b Bill) WithPaid(paid bool) Bill {
	b.Paid = paid
	return b
}

func (v Vehicle) Validate() error {
	if err := validateName(v.Name); err != nil {
		return err
	}
	if len(v.Model) > MaxNameLength {
		return ErrNameTooLong
	}
	// First production automobile through a generous model-year horizon.
	if v.Year < 1886 || v.Year > 9999 {
		return ErrInvalidYear
	}
	if strings.TrimSpace(v.LicensePlate) == "" {
		return ErrEmptyPlate
	}
	return nil
}

func (r ServiceRecord) Validate() error {
	if strings.TrimSpace(r.VehicleID) == "" {
		return ErrMissingVehicle
	}
	if err := validateName(r.Description); err != nil {
		return err
	}
	if len(r.Location) > MaxNameLength {
		return ErrNameTooLong
	}
	if err := r.Date.Validate(); err != nil {
		return err
	}
	return r.Cost.Validate()
}

func (s Subscription) Validate() error {
	if err := validateName(s.Name); err != nil {
		return err
	}
	if err := s.Cost.Validate(); err != nil {
		return err
	}
	if err := s.Cycle.Validate(); err != nil {
		return err
	}
	return s.NextBillingDate.Validate()
}

func (p PasswordEntry) Validate() error {
	if err := validateName(p.Title); err != nil {
		return err
	}
	if len(p.Username) > MaxNameLength {
		return ErrNameTooLong
	}
	if err := p.Category.Validate(); err != nil {
		return err
	}
	if err := p.LastUpdated.Validate(); err != nil {
		return err
	}
	return p.Strength.Validate()
}

func (t Task) Validate() error {
	if err := validateName(t.Title); err != nil {
		return err
	}
	if len(t.DueLabel) > MaxNameLength {
		return ErrNameTooLong
	}
	return nil
}

// WithCompleted returns a copy of the task with the completion flag set.
func (t Task) WithCompleted(completed bool) Task {
	t.Completed = completed
	return t
}
