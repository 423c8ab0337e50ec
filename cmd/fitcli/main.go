// Command fitcli is a terminal client for the InertiaFit backend: account
// management, daily food and exercise logging, nutrition recommendations
// and PDF report export.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/inertiafit/fitcli/config"
	"github.com/inertiafit/fitcli/internal/dashboard"
	"github.com/inertiafit/fitcli/internal/gateway"
	"github.com/inertiafit/fitcli/internal/metrics"
	"github.com/inertiafit/fitcli/internal/report"
	"github.com/inertiafit/fitcli/internal/session"
	"github.com/inertiafit/fitcli/internal/types"
)

const usage = `fitcli - InertiaFit client

Usage:
  fitcli <command> [flags]

Commands:
  register      create an account
  login         log in and store the session
  logout        clear the stored session
  show          daily overview for a date
  plan          nutrition targets and recipe recommendations
  custom        recipe search by nutrition sliders
  log-exercise  save the exercise record for a date
  report        export the daily report as PDF

Run 'fitcli <command> -h' for command flags.`

func main() {
	if err := run(os.Args[1:]); err != nil {
		logrus.Fatal(err)
	}
}

func run(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	logrus.SetLevel(level)

	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Println(usage)
		return nil
	}

	store, err := session.Open(cfg.SessionPath)
	if err != nil {
		return err
	}
	defer store.Close()

	client := gateway.New(cfg, store)
	ctx := context.Background()

	switch args[0] {
	case "register":
		return runRegister(ctx, client, args[1:])
	case "login":
		return runLogin(ctx, client, store, args[1:])
	case "logout":
		return store.Clear()
	case "show":
		return runShow(ctx, client, store, args[1:])
	case "plan":
		return runPlan(ctx, client, store)
	case "custom":
		return runCustom(ctx, client, store, args[1:])
	case "log-exercise":
		return runLogExercise(ctx, client, store, args[1:])
	case "report":
		return runReport(ctx, client, store, cfg, args[1:])
	default:
		fmt.Println(usage)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(raw), nil
}

func runRegister(ctx context.Context, client *gateway.Client, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	name := fs.String("name", "", "full name")
	email := fs.String("email", "", "email address")
	age := fs.Int("age", 0, "age in years")
	height := fs.Float64("height", 0, "height in cm")
	weight := fs.Float64("weight", 0, "weight in kg")
	gender := fs.String("gender", types.GenderOther, "gender (Male, Female, Other)")
	activity := fs.String("activity", types.ActivityNone, "activity level")
	goal := fs.String("goal", types.GoalMaintain, "weight goal (Lose, Maintain, Gain)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" || *email == "" {
		return errors.New("register: -name and -email are required")
	}

	password, err := readPassword("Password: ")
	if err != nil {
		return err
	}

	err = client.Register(ctx, types.RegisterRequest{
		Name:          *name,
		Email:         *email,
		Password:      password,
		Age:           *age,
		Height:        *height,
		Weight:        *weight,
		Gender:        *gender,
		ActivityLevel: *activity,
		WeightGoal:    *goal,
		JoinDate:      time.Now().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}

	// Registration never logs in; the account is used with `fitcli login`.
	fmt.Println("Account created. Log in with: fitcli login -email", *email)
	return nil
}

func runLogin(ctx context.Context, client *gateway.Client, store *session.Store, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "email address")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		return errors.New("login: -email is required")
	}

	password, err := readPassword("Password: ")
	if err != nil {
		return err
	}

	resp, err := client.Login(ctx, *email, password)
	if err != nil {
		return err
	}
	if err := store.SetSession(resp.AccessToken, resp.User); err != nil {
		return err
	}
	fmt.Printf("Logged in as %s\n", resp.User.Name)
	return nil
}

func controller(ctx context.Context, client *gateway.Client, store *session.Store) (*dashboard.Controller, error) {
	c, err := dashboard.New(client, store)
	if err != nil {
		return nil, err
	}
	if err := c.LoadProfile(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

func runShow(ctx context.Context, client *gateway.Client, store *session.Store, args []string) error {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	date := fs.String("date", time.Now().Format(dashboard.DateFormat), "date (YYYY-MM-DD)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	c, err := controller(ctx, client, store)
	if err != nil {
		return err
	}
	c.SetDate(ctx, *date)

	snap := c.Snapshot()
	profile := snap.Profile.Profile
	bmi, category := metrics.ComputeBMI(profile.Weight, profile.Height)

	fmt.Printf("%s - %s\n\n", profile.Name, *date)
	if bmi > 0 {
		fmt.Printf("BMI: %.2f (%s)\n\n", bmi, category)
	}

	fmt.Println("Meals:")
	printMeal("  breakfast", snap.Food.Summary.Breakfast)
	printMeal("  lunch", snap.Food.Summary.Lunch)
	printMeal("  dinner", snap.Food.Summary.Dinner)
	for _, extra := range snap.Food.Summary.Extra {
		printMeal("  extra", extra)
	}
	food := metrics.TotalFoodCalories(snap.Food.Summary)
	fmt.Printf("  total: %s kcal\n\n", metrics.FormatCalories(food))

	fmt.Println("Exercise:")
	counts := snap.Exercise.Summary.Counts()
	for _, kind := range types.ExerciseKinds {
		if counts[kind] == 0 {
			continue
		}
		fmt.Printf("  %-8s %6d  (%s kcal)\n", kind, counts[kind],
			metrics.FormatCalories(metrics.CaloriesForExercise(kind, counts[kind])))
	}
	burned := metrics.TotalCaloriesBurned(counts)
	fmt.Printf("  burned: %s kcal\n", metrics.FormatCalories(burned))
	fmt.Printf("\nNet calories: %s kcal\n", metrics.FormatCalories(food-burned))
	return nil
}

func printMeal(label string, meal types.Meal) {
	if meal.Name == "" {
		fmt.Printf("%s: -\n", label)
		return
	}
	fmt.Printf("%s: %s (%s kcal)\n", label, meal.Name, metrics.FormatCalories(meal.Calories))
}

func runPlan(ctx context.Context, client *gateway.Client, store *session.Store) error {
	c, err := controller(ctx, client, store)
	if err != nil {
		return err
	}
	if err := c.LoadPlan(ctx); err != nil {
		return err
	}

	plan := c.Snapshot().Plan.Plan
	fmt.Printf("Daily targets: %.0f kcal, %.0f g protein, %.0f g carbs, %.0f g fat\n",
		plan.Calories, plan.Protein, plan.Carbs, plan.Fats)
	fmt.Printf("BMI: %.2f (%s)\n", plan.BMI, plan.Category)

	printRecipes("Breakfast", plan.Recipes.Breakfast)
	printRecipes("Lunch", plan.Recipes.Lunch)
	printRecipes("Dinner", plan.Recipes.Dinner)
	return nil
}

func printRecipes(slot string, recipes []types.Recipe) {
	if len(recipes) == 0 {
		return
	}
	fmt.Printf("\n%s:\n", slot)
	for _, r := range recipes {
		fmt.Printf("  - %s (%s kcal)\n", r.Name, metrics.FormatCalories(r.Calories))
	}
}

func runCustom(ctx context.Context, client *gateway.Client, store *session.Store, args []string) error {
	prefs := types.DefaultNutritionPreferences()

	fs := flag.NewFlagSet("custom", flag.ExitOnError)
	fs.Float64Var(&prefs.Calories, "calories", prefs.Calories, "calories")
	fs.Float64Var(&prefs.Fat, "fat", prefs.Fat, "fat (g)")
	fs.Float64Var(&prefs.SaturatedFat, "saturated-fat", prefs.SaturatedFat, "saturated fat (g)")
	fs.Float64Var(&prefs.Cholesterol, "cholesterol", prefs.Cholesterol, "cholesterol (mg)")
	fs.Float64Var(&prefs.Sodium, "sodium", prefs.Sodium, "sodium (mg)")
	fs.Float64Var(&prefs.Carbohydrate, "carbs", prefs.Carbohydrate, "carbohydrate (g)")
	fs.Float64Var(&prefs.Fiber, "fiber", prefs.Fiber, "fiber (g)")
	fs.Float64Var(&prefs.Sugar, "sugar", prefs.Sugar, "sugar (g)")
	fs.Float64Var(&prefs.Protein, "protein", prefs.Protein, "protein (g)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	c, err := controller(ctx, client, store)
	if err != nil {
		return err
	}
	if err := c.LoadCustom(ctx, prefs); err != nil {
		return err
	}

	custom := c.Snapshot().Custom
	if custom.NoResults {
		fmt.Println("No recipes match these values.")
		return nil
	}
	printRecipes("Recipes", custom.Recipes)
	return nil
}

func runLogExercise(ctx context.Context, client *gateway.Client, store *session.Store, args []string) error {
	fs := flag.NewFlagSet("log-exercise", flag.ExitOnError)
	date := fs.String("date", time.Now().Format(dashboard.DateFormat), "date (YYYY-MM-DD)")
	situp := fs.Int("sit-up", 0, "sit-up reps")
	pullup := fs.Int("pull-up", 0, "pull-up reps")
	pushup := fs.Int("push-up", 0, "push-up reps")
	squat := fs.Int("squat", 0, "squat reps")
	walk := fs.Int("walk", 0, "steps walked")
	if err := fs.Parse(args); err != nil {
		return err
	}

	c, err := controller(ctx, client, store)
	if err != nil {
		return err
	}
	c.SetDate(ctx, *date)

	// Saving overwrites the whole record for the date.
	err = c.SaveExercise(ctx, types.ExerciseSummary{
		SitUp:  types.FlexInt(*situp),
		PullUp: types.FlexInt(*pullup),
		PushUp: types.FlexInt(*pushup),
		Squat:  types.FlexInt(*squat),
		Walk:   types.FlexInt(*walk),
	})
	if err != nil {
		return err
	}

	burned := metrics.TotalCaloriesBurned(c.Snapshot().Exercise.Summary.Counts())
	fmt.Printf("Saved. Calories burned on %s: %s kcal\n", *date, metrics.FormatCalories(burned))
	return nil
}

func runReport(ctx context.Context, client *gateway.Client, store *session.Store, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	date := fs.String("date", time.Now().Format(dashboard.DateFormat), "date (YYYY-MM-DD)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	c, err := controller(ctx, client, store)
	if err != nil {
		return err
	}
	c.SetDate(ctx, *date)
	if err := c.LoadPlan(ctx); err != nil {
		// The report renders without targets; recommendations are optional
		// for export.
		logrus.WithError(err).Debug("nutrition plan unavailable for report")
	}

	path, err := report.New(cfg.ReportDir).Export(c.Snapshot())
	if err != nil {
		return err
	}
	fmt.Println("Report written to", path)
	return nil
}
