// Package report renders a dashboard snapshot into a paginated PDF. The
// export is synchronous and best-effort per section: a section that cannot
// render writes a placeholder line and the rest of the document survives.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/sirupsen/logrus"

	"github.com/inertiafit/fitcli/internal/dashboard"
	"github.com/inertiafit/fitcli/internal/metrics"
	"github.com/inertiafit/fitcli/internal/types"
)

// breakThreshold is the y position past which the next block starts on a
// fresh page.
const breakThreshold = 250.0

// Exporter writes reports into a directory.
type Exporter struct {
	outDir string
	log    *logrus.Entry
	now    func() time.Time
}

// New creates an Exporter writing into outDir.
func New(outDir string) *Exporter {
	return &Exporter{
		outDir: outDir,
		log:    logrus.WithField("component", "report"),
		now:    time.Now,
	}
}

// Filename is the deterministic report name for a user and date. Spaces in
// the name become underscores; an empty name falls back to "User".
func Filename(name, date string) string {
	if strings.TrimSpace(name) == "" {
		name = "User"
	}
	name = strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
	return fmt.Sprintf("InertiaFit_%s_Report_%s.pdf", name, date)
}

// Export renders the snapshot and writes it to the output directory,
// returning the written path.
func (e *Exporter) Export(snap dashboard.State) (string, error) {
	date := snap.Date
	if date == "" {
		date = e.now().Format(dashboard.DateFormat)
	}
	path := filepath.Join(e.outDir, Filename(snap.Profile.Profile.Name, date))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	if err := e.Render(snap, f); err != nil {
		return "", err
	}
	e.log.WithField("path", path).Info("report exported")
	return path, nil
}

// Render writes the PDF to w. An entirely empty snapshot still yields a
// document with every field defaulted.
func (e *Exporter) Render(snap dashboard.State, w io.Writer) error {
	date := snap.Date
	if date == "" {
		date = e.now().Format(dashboard.DateFormat)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 10)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(130, 130, 130)
		pdf.CellFormat(0, 6, fmt.Sprintf("Generated by InertiaFit on %s  |  Page %d",
			e.now().Format("2006-01-02 15:04"), pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	e.header(pdf)

	pdf.SetTextColor(60, 60, 60)
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetY(32)
	pdf.CellFormat(0, 7, "Report Date: "+date, "", 1, "R", false, 0, "")
	pdf.Ln(2)

	profile := snap.Profile.Profile
	e.section(pdf, "User Information", func() {
		e.keyValue(pdf, "Name", orNA(profile.Name))
		e.keyValue(pdf, "Email", orNA(profile.Email))
		e.keyValue(pdf, "Member Since", orNA(memberSince(profile.JoinDate)))
	})

	e.section(pdf, "Physical Information", func() {
		bmi, category := metrics.ComputeBMI(profile.Weight, profile.Height)
		e.keyValue(pdf, "Age", orNA(nonZeroInt(profile.Age)))
		e.keyValue(pdf, "Height", orNA(nonZeroUnit(profile.Height, "cm")))
		e.keyValue(pdf, "Weight", orNA(nonZeroUnit(profile.Weight, "kg")))
		if bmi > 0 {
			e.keyValue(pdf, "BMI", fmt.Sprintf("%.2f (%s)", bmi, category))
		} else {
			e.keyValue(pdf, "BMI", "N/A")
		}
		e.keyValue(pdf, "Activity Level", orNA(profile.ActivityLevel))
		e.keyValue(pdf, "Weight Goal", orNA(profile.WeightGoal))
	})

	food := snap.Food.Summary
	e.section(pdf, "Nutrition Log", func() {
		e.mealRow(pdf, "Breakfast", food.Breakfast)
		e.mealRow(pdf, "Lunch", food.Lunch)
		e.mealRow(pdf, "Dinner", food.Dinner)
		for _, extra := range food.Extra {
			e.mealRow(pdf, "Extra", extra)
		}
		pdf.Ln(1)
		e.keyValue(pdf, "Total Food Calories", metrics.FormatCalories(metrics.TotalFoodCalories(food))+" kcal")
	})

	exercise := snap.Exercise.Summary
	e.section(pdf, "Exercise Data", func() {
		counts := exercise.Counts()
		for _, kind := range types.ExerciseKinds {
			burned := metrics.CaloriesForExercise(kind, counts[kind])
			e.keyValue(pdf, exerciseLabel(kind),
				fmt.Sprintf("%d  (%s kcal)", counts[kind], metrics.FormatCalories(burned)))
		}
		pdf.Ln(1)
		e.keyValue(pdf, "Total Calories Burned",
			metrics.FormatCalories(metrics.TotalCaloriesBurned(counts))+" kcal")
	})

	e.section(pdf, "Nutrition & Activity Summary", func() {
		foodCal := metrics.TotalFoodCalories(food)
		burned := metrics.TotalCaloriesBurned(exercise.Counts())

		var target float64
		if snap.Plan.Plan != nil {
			target = snap.Plan.Plan.Calories
		}
		balance := metrics.NetCalories(foodCal, burned, target)

		e.keyValue(pdf, "Daily Calorie Target", orNA(nonZeroUnit(target, "kcal")))
		e.keyValue(pdf, "Net Calories", metrics.FormatCalories(balance.Net)+" kcal")
		if target > 0 {
			status := "within target"
			if balance.Exceeds {
				status = "exceeds target"
			}
			e.keyValue(pdf, "Status", fmt.Sprintf("%s (%.1f%% of target)", status, balance.Pct))
		}
		if snap.Plan.Plan != nil {
			e.keyValue(pdf, "Protein Target", fmt.Sprintf("%.0f g", snap.Plan.Plan.Protein))
			e.keyValue(pdf, "Carbs Target", fmt.Sprintf("%.0f g", snap.Plan.Plan.Carbs))
			e.keyValue(pdf, "Fats Target", fmt.Sprintf("%.0f g", snap.Plan.Plan.Fats))
		}
	})

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}

func (e *Exporter) header(pdf *gofpdf.Fpdf) {
	pdf.SetFillColor(33, 150, 83)
	pdf.Rect(0, 0, 210, 26, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetXY(10, 6)
	pdf.CellFormat(0, 9, "InertiaFit", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetX(10)
	pdf.CellFormat(0, 6, "Health & Fitness Report", "", 1, "L", false, 0, "")
}

// section writes a titled block. A panic inside body is contained to the
// section; the report carries a placeholder line and continues.
func (e *Exporter) section(pdf *gofpdf.Fpdf, title string, body func()) {
	e.ensureSpace(pdf, 20)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.SetTextColor(33, 150, 83)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
	pdf.SetDrawColor(33, 150, 83)
	pdf.Line(10, pdf.GetY(), 200, pdf.GetY())
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(60, 60, 60)

	func() {
		defer func() {
			if r := recover(); r != nil {
				e.log.WithField("section", title).Warnf("section failed to render: %v", r)
				pdf.SetFont("Helvetica", "I", 10)
				pdf.CellFormat(0, 6, "This section could not be rendered.", "", 1, "L", false, 0, "")
			}
		}()
		body()
	}()
	pdf.Ln(4)
}

func (e *Exporter) ensureSpace(pdf *gofpdf.Fpdf, needed float64) {
	if pdf.GetY()+needed > breakThreshold {
		pdf.AddPage()
		pdf.SetY(15)
	}
}

func (e *Exporter) keyValue(pdf *gofpdf.Fpdf, key, value string) {
	e.ensureSpace(pdf, 7)
	pdf.SetX(14)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(55, 6, key+":", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, value, "", 1, "L", false, 0, "")
}

func (e *Exporter) mealRow(pdf *gofpdf.Fpdf, slot string, meal types.Meal) {
	value := "N/A"
	if meal.Name != "" {
		value = fmt.Sprintf("%s  (%s kcal)", meal.Name, metrics.FormatCalories(meal.Calories))
	}
	e.keyValue(pdf, slot, value)
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

func nonZeroInt(v int) string {
	if v <= 0 {
		return ""
	}
	return fmt.Sprintf("%d", v)
}

func nonZeroUnit(v float64, unit string) string {
	if v <= 0 {
		return ""
	}
	return fmt.Sprintf("%.1f %s", v, unit)
}

// memberSince trims a joinDate timestamp down to its date part.
func memberSince(joinDate string) string {
	if joinDate == "" {
		return ""
	}
	if t, err := time.Parse(time.RFC3339, joinDate); err == nil {
		return t.Format(dashboard.DateFormat)
	}
	return joinDate
}

func exerciseLabel(kind string) string {
	switch kind {
	case types.ExerciseSitUp:
		return "Sit-ups"
	case types.ExercisePullUp:
		return "Pull-ups"
	case types.ExercisePushUp:
		return "Push-ups"
	case types.ExerciseSquat:
		return "Squats"
	case types.ExerciseWalk:
		return "Walk (steps)"
	}
	return kind
}
