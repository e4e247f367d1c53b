package model

// Columns is the fixed column order of the student table.
var Columns = []string{"id", "name", "age", "gender", "course", "marks", "attendance"}

type Student struct {
	ID         int     `gorm:"primaryKey;autoIncrement:false" json:"id"` // ID is assigned by the table, never reused
	Name       string  `json:"name"`
	Age        int     `json:"age"`
	Gender     string  `json:"gender"`
	Course     string  `json:"course"`
	Marks      float64 `json:"marks"`
	Attendance float64 `json:"attendance"`
}

// StudentFields holds everything a new student needs except the ID.
type StudentFields struct {
	Name       string  `json:"name"`
	Age        int     `json:"age"`
	Gender     string  `json:"gender"`
	Course     string  `json:"course"`
	Marks      float64 `json:"marks"`
	Attendance float64 `json:"attendance"`
}

// WithID builds the stored record for these fields.
func (f StudentFields) WithID(id int) Student {
	return Student{
		ID:         id,
		Name:       f.Name,
		Age:        f.Age,
		Gender:     f.Gender,
		Course:     f.Course,
		Marks:      f.Marks,
		Attendance: f.Attendance,
	}
}

// StudentUpdate is a partial update. A nil field keeps the stored value.
type StudentUpdate struct {
	Name       *string  `json:"name,omitempty"`
	Age        *int     `json:"age,omitempty"`
	Gender     *string  `json:"gender,omitempty"`
	Course     *string  `json:"course,omitempty"`
	Marks      *float64 `json:"marks,omitempty"`
	Attendance *float64 `json:"attendance,omitempty"`
}

// IsEmpty reports whether the update carries no field at all.
func (u StudentUpdate) IsEmpty() bool {
	return u.Name == nil && u.Age == nil && u.Gender == nil &&
		u.Course == nil && u.Marks == nil && u.Attendance == nil
}

// Missing lists the column names of the fields u leaves unset.
func (u StudentUpdate) Missing() []string {
	var missing []string
	for _, f := range []struct {
		name  string
		unset bool
	}{
		{"name", u.Name == nil},
		{"age", u.Age == nil},
		{"gender", u.Gender == nil},
		{"course", u.Course == nil},
		{"marks", u.Marks == nil},
		{"attendance", u.Attendance == nil},
	} {
		if f.unset {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// Apply returns s with every supplied field replaced.
func (u StudentUpdate) Apply(s Student) Student {
	if u.Name != nil {
		s.Name = *u.Name
	}
	if u.Age != nil {
		s.Age = *u.Age
	}
	if u.Gender != nil {
		s.Gender = *u.Gender
	}
	if u.Course != nil {
		s.Course = *u.Course
	}
	if u.Marks != nil {
		s.Marks = *u.Marks
	}
	if u.Attendance != nil {
		s.Attendance = *u.Attendance
	}
	return s
}
