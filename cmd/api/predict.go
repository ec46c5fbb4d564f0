package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"CustomerChurnPrediction/internal/advice"
	"CustomerChurnPrediction/internal/inference"
	"CustomerChurnPrediction/internal/models"
)

var profileFlags struct {
	gender        string
	seniorCitizen string
	married       string
	dependents    string
	tenure        int
	contract      string
	internet      string
	monthly       float64
	total         float64
	satisfaction  int
	asJSON        bool
}

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Score one customer profile given by flags",
	Example: `  churn predict --tenure 1 --contract "Month-to-month" --internet "Fiber Optic" --monthly 95 --satisfaction 1
  churn predict --contract "Two year" --satisfaction 5 --json`,
	Args: cobra.NoArgs,
	RunE: runPredict,
}

func init() {
	d := models.DefaultProfile()
	flags := predictCmd.Flags()
	flags.StringVar(&profileFlags.gender, "gender", string(d.Gender), "Male or Female")
	flags.StringVar(&profileFlags.seniorCitizen, "senior-citizen", string(d.SeniorCitizen), "Yes or No")
	flags.StringVar(&profileFlags.married, "married", string(d.Married), "Yes or No")
	flags.StringVar(&profileFlags.dependents, "dependents", string(d.Dependents), "Yes or No")
	flags.IntVar(&profileFlags.tenure, "tenure", d.TenureInMonths, "tenure in months, 0 to 72")
	flags.StringVar(&profileFlags.contract, "contract", string(d.Contract), "Month-to-month, One year or Two year")
	flags.StringVar(&profileFlags.internet, "internet", string(d.InternetService), "No, DSL or Fiber Optic")
	flags.Float64Var(&profileFlags.monthly, "monthly", d.MonthlyCharge, "monthly charge")
	flags.Float64Var(&profileFlags.total, "total", 0, "total charges, sent only when set")
	flags.IntVar(&profileFlags.satisfaction, "satisfaction", d.SatisfactionScore, "satisfaction score, 1 (worst) to 5 (best)")
	flags.BoolVar(&profileFlags.asJSON, "json", false, "print the prediction as JSON")
}

func profileFromFlags(cmd *cobra.Command) (models.CustomerProfile, error) {
	var (
		p   models.CustomerProfile
		err error
	)
	if p.Gender, err = models.ParseGender(profileFlags.gender); err != nil {
		return p, err
	}
	if p.SeniorCitizen, err = models.ParseYesNo("SeniorCitizen", profileFlags.seniorCitizen); err != nil {
		return p, err
	}
	if p.Married, err = models.ParseYesNo("Married", profileFlags.married); err != nil {
		return p, err
	}
	if p.Dependents, err = models.ParseYesNo("Dependents", profileFlags.dependents); err != nil {
		return p, err
	}
	if p.Contract, err = models.ParseContract(profileFlags.contract); err != nil {
		return p, err
	}
	if p.InternetService, err = models.ParseInternetService(profileFlags.internet); err != nil {
		return p, err
	}
	p.TenureInMonths = profileFlags.tenure
	p.MonthlyCharge = profileFlags.monthly
	p.SatisfactionScore = profileFlags.satisfaction
	if cmd.Flags().Changed("total") {
		total := profileFlags.total
		p.TotalCharges = &total
	}
	return p, nil
}

func runPredict(cmd *cobra.Command, _ []string) error {
	profile, err := profileFromFlags(cmd)
	if err != nil {
		return err
	}

	svc, err := inference.Load(cmd.Context(), inferenceOptions(), logger)
	if err != nil {
		return err
	}
	pred, err := svc.Predict(cmd.Context(), profile)
	if err != nil {
		return err
	}
	a, _ := advice.For(pred)

	out := cmd.OutOrStdout()
	if profileFlags.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Prediction models.Prediction `json:"prediction"`
			Percent    string            `json:"churn_percent"`
			Advice     advice.Advice     `json:"advice"`
		}{pred, pred.Percent(), a})
	}

	fmt.Fprintln(out, a.Headline)
	fmt.Fprintln(out, a.Summary)
	fmt.Fprintln(out, a.Action)
	return nil
}
