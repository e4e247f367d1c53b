// Package cli is the interactive text menu over the student table.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"strconv"
	"strings"
	"text/tabwriter"

	"studentrecords/internal/model"
	"studentrecords/internal/service"
)

// barWidth is the length of the longest bar in a text chart.
const barWidth = 40

var menuItems = []string{
	"Add student",
	"View all students",
	"Search student",
	"Update student",
	"Delete student",
	"Show statistics",
	"Show top %d students",
	"Show average marks by course",
	"Plot marks distribution",
	"Plot attendance distribution",
	"Plot marks vs attendance",
	"Plot course-wise average marks",
	"Plot correlation heatmap",
	"Exit",
}

type Menu struct {
	students *service.StudentService
	charts   *service.ChartService
	in       *bufio.Scanner
	out      io.Writer
	topN     int
}

func NewMenu(students *service.StudentService, charts *service.ChartService, in io.Reader, out io.Writer, topN int) *Menu {
	return &Menu{
		students: students,
		charts:   charts,
		in:       bufio.NewScanner(in),
		out:      out,
		topN:     topN,
	}
}

// Run shows the menu until the user exits or input ends.
func (m *Menu) Run(ctx context.Context) error {
	for {
		fmt.Fprintln(m.out, "\n===== Student Management System =====")
		for i, item := range menuItems {
			if strings.Contains(item, "%d") {
				item = fmt.Sprintf(item, m.topN)
			}
			fmt.Fprintf(m.out, "%d. %s\n", i+1, item)
		}

		choice, ok := m.prompt(fmt.Sprintf("Enter choice (1-%d): ", len(menuItems)))
		if !ok {
			fmt.Fprintln(m.out, "\nGoodbye!")
			return m.in.Err()
		}

		var err error
		switch strings.TrimSpace(choice) {
		case "1":
			err = m.addStudent(ctx)
		case "2":
			err = m.viewStudents(ctx)
		case "3":
			err = m.searchStudent(ctx)
		case "4":
			err = m.updateStudent(ctx)
		case "5":
			err = m.deleteStudent(ctx)
		case "6":
			err = m.showStatistics(ctx)
		case "7":
			err = m.showTop(ctx)
		case "8":
			err = m.showCourseAverages(ctx)
		case "9":
			err = m.plot(ctx, service.ChartMarksDistribution)
		case "10":
			err = m.plot(ctx, service.ChartAttendanceDistribution)
		case "11":
			err = m.plot(ctx, service.ChartMarksVsAttendance)
		case "12":
			err = m.plot(ctx, service.ChartCourseAverage)
		case "13":
			err = m.plot(ctx, service.ChartCorrelation)
		case "14":
			fmt.Fprintln(m.out, "Goodbye!")
			return nil
		default:
			fmt.Fprintln(m.out, "Invalid choice! Try again.")
		}
		if err != nil {
			m.report(err)
		}
	}
}

func (m *Menu) report(err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		fmt.Fprintf(m.out, "\nInvalid input: %v\n", err)
	case errors.Is(err, service.ErrNotFound):
		fmt.Fprintln(m.out, "ID not found.")
	default:
		log.Println("Error:", err)
		fmt.Fprintf(m.out, "\nError: %v\n", err)
	}
}

// prompt reads one line. ok is false once input is exhausted.
func (m *Menu) prompt(label string) (string, bool) {
	fmt.Fprint(m.out, label)
	if !m.in.Scan() {
		return "", false
	}
	return m.in.Text(), true
}

func (m *Menu) promptAll(labels ...string) []string {
	values := make([]string, len(labels))
	for i, label := range labels {
		values[i], _ = m.prompt(label)
	}
	return values
}

func (m *Menu) addStudent(ctx context.Context) error {
	fmt.Fprintln(m.out, "\n--- Add New Student ---")
	v := m.promptAll("Name        : ", "Age         : ", "Gender (M/F): ", "Course      : ", "Marks (0-100): ", "Attendance % : ")

	fields, err := service.ParseFields(service.RawFields{
		Name: v[0], Age: v[1], Gender: v[2], Course: v[3], Marks: v[4], Attendance: v[5],
	})
	if err != nil {
		return err
	}
	id, err := m.students.Add(ctx, fields)
	if err != nil {
		return err
	}
	fmt.Fprintf(m.out, "\nStudent added with ID: %d\n", id)
	return nil
}

func (m *Menu) viewStudents(ctx context.Context) error {
	students, err := m.students.List(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(m.out, "\n--- All Students ---")
	if len(students) == 0 {
		fmt.Fprintln(m.out, "No records found.")
		return nil
	}
	m.printStudents(students)
	return nil
}

func (m *Menu) searchStudent(ctx context.Context) error {
	fmt.Fprintln(m.out, "\n--- Search Student ---")
	by, _ := m.prompt("Search by (1) ID or (2) Name? : ")

	var result []model.Student
	if strings.TrimSpace(by) == "1" {
		raw, _ := m.prompt("Enter ID: ")
		id, err := service.ParseID(raw)
		if err != nil {
			return err
		}
		student, err := m.students.Get(ctx, id)
		if err != nil && !errors.Is(err, service.ErrNotFound) {
			return err
		}
		if err == nil {
			result = []model.Student{student}
		}
	} else {
		name, _ := m.prompt("Enter name (part or full): ")
		var err error
		if result, err = m.students.Search(ctx, name); err != nil {
			return err
		}
	}

	if len(result) == 0 {
		fmt.Fprintln(m.out, "No matching student found.")
		return nil
	}
	fmt.Fprintln(m.out, "\nResult:")
	m.printStudents(result)
	return nil
}

func (m *Menu) updateStudent(ctx context.Context) error {
	raw, _ := m.prompt("Enter ID of student to update: ")
	id, err := service.ParseID(raw)
	if err != nil {
		return err
	}
	current, err := m.students.Get(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintln(m.out, "\nLeave blank to keep old value.")
	v := m.promptAll(
		fmt.Sprintf("Name (%s): ", current.Name),
		fmt.Sprintf("Age (%d): ", current.Age),
		fmt.Sprintf("Gender (%s): ", current.Gender),
		fmt.Sprintf("Course (%s): ", current.Course),
		fmt.Sprintf("Marks (%s): ", formatNumber(current.Marks)),
		fmt.Sprintf("Attendance (%s): ", formatNumber(current.Attendance)),
	)
	update, err := service.ParseUpdate(service.RawFields{
		Name: v[0], Age: v[1], Gender: v[2], Course: v[3], Marks: v[4], Attendance: v[5],
	})
	if err != nil {
		return err
	}
	if _, err := m.students.Update(ctx, id, update); err != nil {
		return err
	}
	fmt.Fprintln(m.out, "\nStudent updated.")
	return nil
}

func (m *Menu) deleteStudent(ctx context.Context) error {
	raw, _ := m.prompt("Enter ID of student to delete: ")
	id, err := service.ParseID(raw)
	if err != nil {
		return err
	}
	if err := m.students.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintln(m.out, "\nStudent deleted.")
	return nil
}

func (m *Menu) showStatistics(ctx context.Context) error {
	stats, err := m.students.Statistics(ctx)
	if errors.Is(err, service.ErrNoData) {
		fmt.Fprintln(m.out, "\nNo data for statistics.")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(m.out, "\n--- Basic Statistics ---")
	tw := tabwriter.NewWriter(m.out, 0, 0, 1, ' ', 0)
	fmt.Fprintf(tw, "Total students\t: %d\n", stats.Total)
	fmt.Fprintf(tw, "Average marks\t: %s\n", formatNumber(service.RoundTo2(stats.AverageMarks)))
	fmt.Fprintf(tw, "Highest marks\t: %s\n", formatNumber(stats.HighestMarks))
	fmt.Fprintf(tw, "Lowest marks\t: %s\n", formatNumber(stats.LowestMarks))
	fmt.Fprintf(tw, "Average attendance\t: %s\n", formatNumber(service.RoundTo2(stats.AverageAttendance)))
	fmt.Fprintf(tw, "Top scorer\t: %s\n", stats.TopScorer)
	fmt.Fprintf(tw, "Lowest scorer\t: %s\n", stats.LowestScorer)
	fmt.Fprintln(tw, "Course-wise avg marks\t:")
	for _, c := range stats.CourseAverages {
		fmt.Fprintf(tw, "  %s\t  %s\n", c.Course, formatNumber(c.AverageMarks))
	}
	return tw.Flush()
}

func (m *Menu) showTop(ctx context.Context) error {
	top, err := m.students.TopStudents(ctx, m.topN)
	if err != nil {
		return err
	}
	if len(top) == 0 {
		fmt.Fprintln(m.out, "\nNo data available.")
		return nil
	}

	fmt.Fprintf(m.out, "\n--- Top %d Students by Marks ---\n", m.topN)
	tw := tabwriter.NewWriter(m.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "id\tname\tcourse\tmarks\tattendance")
	for _, s := range top {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", s.ID, s.Name, s.Course, formatNumber(s.Marks), formatNumber(s.Attendance))
	}
	return tw.Flush()
}

func (m *Menu) showCourseAverages(ctx context.Context) error {
	averages, err := m.students.CourseAverages(ctx)
	if err != nil {
		return err
	}
	if len(averages) == 0 {
		fmt.Fprintln(m.out, "\nNo data available.")
		return nil
	}

	fmt.Fprintln(m.out, "\n--- Average Marks by Course ---")
	tw := tabwriter.NewWriter(m.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "course\taverage_marks")
	for _, c := range averages {
		fmt.Fprintf(tw, "%s\t%s\n", c.Course, formatNumber(c.AverageMarks))
	}
	return tw.Flush()
}

func (m *Menu) plot(ctx context.Context, name string) error {
	chart, err := m.charts.Build(ctx, name)
	if errors.Is(err, service.ErrNoData) {
		fmt.Fprintln(m.out, "\nNo data to plot.")
		return nil
	}
	if err != nil {
		return err
	}
	return RenderChart(m.out, chart)
}

func (m *Menu) printStudents(students []model.Student) {
	tw := tabwriter.NewWriter(m.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(model.Columns, "\t"))
	for _, s := range students {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\t%s\t%s\n",
			s.ID, s.Name, s.Age, s.Gender, s.Course, formatNumber(s.Marks), formatNumber(s.Attendance))
	}
	if err := tw.Flush(); err != nil {
		log.Println("Error writing table:", err)
	}
}

// RenderChart draws a chart dataset as plain text.
func RenderChart(w io.Writer, chart model.Chart) error {
	fmt.Fprintf(w, "\n--- %s ---\n", chart.Title)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	switch chart.ChartType {
	case model.ChartCorrelation:
		if chart.Matrix == nil {
			break
		}
		fmt.Fprintln(tw, "\t"+strings.Join(chart.Matrix.Labels, "\t"))
		for i, row := range chart.Matrix.Cells {
			cells := make([]string, len(row))
			for j, c := range row {
				cells[j] = "n/a"
				if c != nil {
					cells[j] = strconv.FormatFloat(*c, 'f', 2, 64)
				}
			}
			fmt.Fprintf(tw, "%s\t%s\n", chart.Matrix.Labels[i], strings.Join(cells, "\t"))
		}
	case model.ChartScatter:
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", "course", "name", chart.XAxis, chart.YAxis)
		for _, series := range chart.Series {
			for _, p := range series.Data {
				var x float64
				if p.X != nil {
					x = *p.X
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", series.Name, p.Label, formatNumber(x), formatNumber(p.Value))
			}
		}
	default:
		for _, series := range chart.Series {
			peak := 0.0
			for _, p := range series.Data {
				peak = math.Max(peak, p.Value)
			}
			for _, p := range series.Data {
				n := 0
				if peak > 0 {
					n = int(math.Round(p.Value / peak * barWidth))
				}
				fmt.Fprintf(tw, "%s\t|%s %s\n", p.Label, strings.Repeat("#", n), formatNumber(service.RoundTo2(p.Value)))
			}
		}
	}
	return tw.Flush()
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
