// Package features turns a customer profile into the numeric row the churn
// classifier was trained on.
package features

import (
	"math"

	"CustomerChurnPrediction/internal/models"
)

// Feature names as they appear in the trained model.
const (
	Gender            = "Gender"
	SeniorCitizen     = "SeniorCitizen"
	Married           = "Married"
	Dependents        = "Dependents"
	TenureInMonths    = "TenureinMonths"
	Contract          = "Contract"
	InternetService   = "InternetService"
	MonthlyCharge     = "MonthlyCharge"
	TotalCharges      = "TotalCharges"
	SatisfactionScore = "SatisfactionScore"
)

// CanonicalOrder is the column order used when no schema is available.
var CanonicalOrder = []string{
	Gender,
	SeniorCitizen,
	Married,
	Dependents,
	TenureInMonths,
	Contract,
	InternetService,
	MonthlyCharge,
	TotalCharges,
	SatisfactionScore,
}

// Ordinal tables. They reflect what the model was trained on and must not change.
var (
	genderCodes = map[models.Gender]float64{
		models.GenderMale:   1,
		models.GenderFemale: 0,
	}
	yesNoCodes = map[models.YesNo]float64{
		models.Yes: 1,
		models.No:  0,
	}
	contractCodes = map[models.Contract]float64{
		models.ContractMonthToMonth: 0,
		models.ContractOneYear:      1,
		models.ContractTwoYear:      2,
	}
	internetCodes = map[models.InternetService]float64{
		models.InternetNone:       0,
		models.InternetDSL:        1,
		models.InternetFiberOptic: 2,
	}
)

// Record is anything that can be looked up by feature name.
type Record interface {
	Lookup(name string) (float64, bool)
}

// EncodedRecord maps feature names to numeric values.
type EncodedRecord map[string]float64

func (r EncodedRecord) Lookup(name string) (float64, bool) {
	v, ok := r[name]
	return v, ok
}

// Row returns the record as an AlignedRecord in canonical column order,
// skipping features the record does not hold.
func (r EncodedRecord) Row() AlignedRecord {
	row := AlignedRecord{
		columns: make([]string, 0, len(r)),
		values:  make([]float64, 0, len(r)),
	}
	for _, name := range CanonicalOrder {
		if v, ok := r[name]; ok {
			row.columns = append(row.columns, name)
			row.values = append(row.values, v)
		}
	}
	return row
}

// Encode maps a profile onto its numeric feature record. Numeric fields are
// only validated, never clamped.
func Encode(p models.CustomerProfile) (EncodedRecord, error) {
	rec := make(EncodedRecord, len(CanonicalOrder))

	g, ok := genderCodes[p.Gender]
	if !ok {
		return nil, &InvalidCategoryError{Field: Gender, Value: string(p.Gender)}
	}
	rec[Gender] = g

	for _, f := range []struct {
		name  string
		value models.YesNo
	}{
		{SeniorCitizen, p.SeniorCitizen},
		{Married, p.Married},
		{Dependents, p.Dependents},
	} {
		v, ok := yesNoCodes[f.value]
		if !ok {
			return nil, &InvalidCategoryError{Field: f.name, Value: string(f.value)}
		}
		rec[f.name] = v
	}

	c, ok := contractCodes[p.Contract]
	if !ok {
		return nil, &InvalidCategoryError{Field: Contract, Value: string(p.Contract)}
	}
	rec[Contract] = c

	i, ok := internetCodes[p.InternetService]
	if !ok {
		return nil, &InvalidCategoryError{Field: InternetService, Value: string(p.InternetService)}
	}
	rec[InternetService] = i

	if err := checkRange(TenureInMonths, float64(p.TenureInMonths), models.MinTenureMonths, models.MaxTenureMonths); err != nil {
		return nil, err
	}
	rec[TenureInMonths] = float64(p.TenureInMonths)

	if err := checkRange(MonthlyCharge, p.MonthlyCharge, 0, math.Inf(1)); err != nil {
		return nil, err
	}
	rec[MonthlyCharge] = p.MonthlyCharge

	if p.TotalCharges != nil {
		if err := checkRange(TotalCharges, *p.TotalCharges, 0, math.Inf(1)); err != nil {
			return nil, err
		}
		rec[TotalCharges] = *p.TotalCharges
	}

	if err := checkRange(SatisfactionScore, float64(p.SatisfactionScore), models.MinSatisfaction, models.MaxSatisfaction); err != nil {
		return nil, err
	}
	rec[SatisfactionScore] = float64(p.SatisfactionScore)

	return rec, nil
}

func checkRange(field string, v, lo, hi float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < lo || v > hi {
		return &OutOfRangeError{Field: field, Value: v, Min: lo, Max: hi}
	}
	return nil
}
