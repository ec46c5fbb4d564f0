package models

import "fmt"

// Gender of the customer.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

// YesNo answers the binary profile questions (senior citizen, married, dependents).
type YesNo string

const (
	No  YesNo = "No"
	Yes YesNo = "Yes"
)

// Contract is the customer's billing commitment.
type Contract string

const (
	ContractMonthToMonth Contract = "Month-to-month"
	ContractOneYear      Contract = "One year"
	ContractTwoYear      Contract = "Two year"
)

// InternetService is the customer's internet plan.
type InternetService string

const (
	InternetNone       InternetService = "No"
	InternetDSL        InternetService = "DSL"
	InternetFiberOptic InternetService = "Fiber Optic"
)

// Bounds of the numeric profile attributes.
const (
	MinTenureMonths     = 0
	MaxTenureMonths     = 72
	MinSatisfaction     = 1
	MaxSatisfaction     = 5
	DefaultTenureMonths = 12
	DefaultMonthly      = 70.0
	DefaultSatisfaction = 3
)

// Options for the form select boxes, in display order.
var (
	GenderOptions   = []Gender{GenderMale, GenderFemale}
	YesNoOptions    = []YesNo{No, Yes}
	ContractOptions = []Contract{ContractMonthToMonth, ContractOneYear, ContractTwoYear}
	InternetOptions = []InternetService{InternetNone, InternetDSL, InternetFiberOptic}
)

// CustomerProfile is the raw set of attributes collected from the form.
// TotalCharges is optional; a nil value means the caller did not supply it.
type CustomerProfile struct {
	Gender            Gender          `json:"gender" form:"gender"`
	SeniorCitizen     YesNo           `json:"senior_citizen" form:"senior_citizen"`
	Married           YesNo           `json:"married" form:"married"`
	Dependents        YesNo           `json:"dependents" form:"dependents"`
	TenureInMonths    int             `json:"tenure_in_months" form:"tenure_in_months"`
	Contract          Contract        `json:"contract" form:"contract"`
	InternetService   InternetService `json:"internet_service" form:"internet_service"`
	MonthlyCharge     float64         `json:"monthly_charge" form:"monthly_charge"`
	TotalCharges      *float64        `json:"total_charges,omitempty" form:"total_charges"`
	SatisfactionScore int             `json:"satisfaction_score" form:"satisfaction_score"`
}

// DefaultProfile returns the values the form starts with.
func DefaultProfile() CustomerProfile {
	return CustomerProfile{
		Gender:            GenderMale,
		SeniorCitizen:     No,
		Married:           No,
		Dependents:        No,
		TenureInMonths:    DefaultTenureMonths,
		Contract:          ContractMonthToMonth,
		InternetService:   InternetNone,
		MonthlyCharge:     DefaultMonthly,
		SatisfactionScore: DefaultSatisfaction,
	}
}

// InvalidCategoryError reports a categorical value outside its enumeration.
type InvalidCategoryError struct {
	Field string
	Value string
}

func (e *InvalidCategoryError) Error() string {
	return fmt.Sprintf("invalid value %q for field %s", e.Value, e.Field)
}

// ParseGender parses a form value into a Gender, rejecting anything outside its option list.
func ParseGender(s string) (Gender, error) {
	for _, g := range GenderOptions {
		if string(g) == s {
			return g, nil
		}
	}
	return "", &InvalidCategoryError{Field: "Gender", Value: s}
}

// ParseYesNo parses a Yes/No answer; field names the profile attribute for error reporting.
func ParseYesNo(field, s string) (YesNo, error) {
	for _, v := range YesNoOptions {
		if string(v) == s {
			return v, nil
		}
	}
	return "", &InvalidCategoryError{Field: field, Value: s}
}

// ParseContract parses a form value into a Contract term, rejecting anything outside its option list.
func ParseContract(s string) (Contract, error) {
	for _, c := range ContractOptions {
		if string(c) == s {
			return c, nil
		}
	}
	return "", &InvalidCategoryError{Field: "Contract", Value: s}
}

// ParseInternetService parses a form value into an InternetService, rejecting anything outside its option list.
func ParseInternetService(s string) (InternetService, error) {
	for _, i := range InternetOptions {
		if string(i) == s {
			return i, nil
		}
	}
	return "", &InvalidCategoryError{Field: "InternetService", Value: s}
}
