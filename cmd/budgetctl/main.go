// budgetctl runs the dashboard's calculators from the command line without
// a server.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"budgeteer/internal/core"
	"budgeteer/internal/invest"
	"budgeteer/internal/tax"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "budgetctl",
	Short: "Budgeteer calculators on the command line",
	Long: `budgetctl runs the tax, projection, and strategy calculators that back
the budgeteer dashboard. All commands are offline; nothing touches the
ledger or the network.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(taxCmd)
	taxCmd.Flags().Float64("income", 0, "Annual gross income in dollars")
	taxCmd.Flags().String("state", "California", "US state for the state tax estimate")
	_ = taxCmd.MarkFlagRequired("income")

	rootCmd.AddCommand(projectCmd)
	projectCmd.Flags().Float64("current", 0, "Current invested amount in dollars")
	projectCmd.Flags().Float64("monthly", 0, "Monthly contribution in dollars")
	projectCmd.Flags().Int("years", 10, "Projection horizon in years")
	projectCmd.Flags().String("strategy", "moderate", "Strategy preset (conservative, moderate, aggressive)")

	rootCmd.AddCommand(strategyCmd)
	strategyCmd.AddCommand(strategyListCmd)
	strategyCmd.AddCommand(strategyRecommendCmd)
	strategyRecommendCmd.Flags().Int("horizon", 0, "Time horizon in years")
	strategyRecommendCmd.Flags().String("risk", "medium", "Risk tolerance (low, medium, high)")
	strategyRecommendCmd.Flags().Float64("current", 0, "Current amount in dollars")
	strategyRecommendCmd.Flags().Float64("target", 0, "Target amount in dollars")
	_ = strategyRecommendCmd.MarkFlagRequired("horizon")
}

var taxCmd = &cobra.Command{
	Use:   "tax",
	Short: "Estimate federal and state income tax",
	RunE: func(cmd *cobra.Command, _ []string) error {
		income, _ := cmd.Flags().GetFloat64("income")
		state, _ := cmd.Flags().GetString("state")
		if income < 0 {
			return fmt.Errorf("income must be non-negative")
		}

		federal := tax.ComputeFederalTax(income)
		stateResult := tax.ComputeStateTax(income, state)
		total := federal.TotalTax + stateResult.TotalTax

		fmt.Printf("Income:      $%.2f\n", income)
		fmt.Printf("Federal tax: $%.2f\n", federal.TotalTax)
		for _, row := range federal.Breakdown {
			fmt.Printf("  %5.1f%% on $%.2f -> $%.2f\n", row.Rate, row.Amount, row.Tax)
		}
		fmt.Printf("State tax (%s): $%.2f\n", state, stateResult.TotalTax)
		fmt.Printf("Total tax:   $%.2f\n", total)
		if income > 0 {
			fmt.Printf("Effective rate: %s\n", core.FormatPercent(total/income))
		}
		return nil
	},
}

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Project compound growth for a savings plan",
	RunE: func(cmd *cobra.Command, _ []string) error {
		current, _ := cmd.Flags().GetFloat64("current")
		monthly, _ := cmd.Flags().GetFloat64("monthly")
		years, _ := cmd.Flags().GetInt("years")
		kind, _ := cmd.Flags().GetString("strategy")

		strategy, err := invest.Get(invest.Kind(strings.ToLower(kind)))
		if err != nil {
			return err
		}
		if years < 0 {
			return fmt.Errorf("years must be non-negative")
		}

		projected := invest.ProjectGrowthDefaultFee(current, monthly, years, strategy.ExpectedReturn)
		contributed := current + monthly*float64(years)*12

		fmt.Printf("Strategy:        %s (%.1f%% expected return)\n", strategy.Kind, strategy.ExpectedReturn*100)
		fmt.Printf("Years:           %d\n", years)
		fmt.Printf("Contributed:     $%.2f\n", contributed)
		fmt.Printf("Projected value: $%.2f\n", projected)
		fmt.Printf("Growth:          $%.2f\n", projected-contributed)
		return nil
	},
}

var strategyCmd = &cobra.Command{
	Use:   "strategy",
	Short: "Inspect and pick investment strategy presets",
}

var strategyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the strategy presets",
	Run: func(*cobra.Command, []string) {
		for _, s := range invest.All() {
			fmt.Printf("%s: %s\n", s.Kind, s.Description)
			fmt.Printf("  allocation: %d%% stocks / %d%% bonds / %d%% cash\n",
				s.Allocation.Stocks, s.Allocation.Bonds, s.Allocation.Cash)
			fmt.Printf("  expected return: %.1f%%, risk: %s, timeframe: %s\n",
				s.ExpectedReturn*100, s.RiskLevel, s.MinTimeframe)
			fmt.Printf("  fees: %s, rebalancing: %s\n", s.Fees, s.Rebalancing)
		}
	},
}

var strategyRecommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend a preset for a goal",
	RunE: func(cmd *cobra.Command, _ []string) error {
		horizon, _ := cmd.Flags().GetInt("horizon")
		risk, _ := cmd.Flags().GetString("risk")
		current, _ := cmd.Flags().GetFloat64("current")
		target, _ := cmd.Flags().GetFloat64("target")

		tolerance := invest.RiskTolerance(strings.ToLower(risk))
		switch tolerance {
		case invest.RiskLow, invest.RiskMedium, invest.RiskHigh:
		default:
			return fmt.Errorf("risk must be low, medium, or high")
		}

		kind := invest.RecommendStrategy(horizon, tolerance, current, target)
		strategy, err := invest.Get(kind)
		if err != nil {
			return err
		}

		fmt.Printf("Recommended strategy: %s\n", strategy.Kind)
		fmt.Printf("  %s\n", strategy.Description)
		for _, tip := range invest.Tips(kind, current, target, horizon) {
			fmt.Printf("  - %s\n", tip)
		}
		return nil
	},
}
