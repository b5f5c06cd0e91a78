package forms

import (
	"strings"
	"testing"
)

func validCreate() CreateTaskForm {
	return CreateTaskForm{
		Title:       "Buy milk",
		Description: "Get 2% milk from the store",
		Date:        "2024-01-01",
	}
}

func TestValidateCreateBoundaries(t *testing.T) {
	cases := []struct {
		name    string
		morph   func(*CreateTaskForm)
		wantErr string // failing field, empty means valid
	}{
		{"valid", func(f *CreateTaskForm) {}, ""},
		{"title 2 chars", func(f *CreateTaskForm) { f.Title = "ab" }, "title"},
		{"title 3 chars", func(f *CreateTaskForm) { f.Title = "abc" }, ""},
		{"title 50 chars", func(f *CreateTaskForm) { f.Title = strings.Repeat("a", 50) }, ""},
		{"title 51 chars", func(f *CreateTaskForm) { f.Title = strings.Repeat("a", 51) }, "title"},
		{"title empty", func(f *CreateTaskForm) { f.Title = "" }, "title"},
		{"description 9 chars", func(f *CreateTaskForm) { f.Description = strings.Repeat("a", 9) }, "description"},
		{"description 10 chars", func(f *CreateTaskForm) { f.Description = strings.Repeat("a", 10) }, ""},
		{"description 200 chars", func(f *CreateTaskForm) { f.Description = strings.Repeat("a", 200) }, ""},
		{"description 201 chars", func(f *CreateTaskForm) { f.Description = strings.Repeat("a", 201) }, "description"},
		{"date missing", func(f *CreateTaskForm) { f.Date = "" }, "date"},
		{"date unparseable", func(f *CreateTaskForm) { f.Date = "next tuesday" }, "date"},
		{"date rfc3339", func(f *CreateTaskForm) { f.Date = "2024-01-01T00:00:00Z" }, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			form := validCreate()
			tc.morph(&form)
			errs := Validate(form)
			if tc.wantErr == "" {
				if errs != nil {
					t.Fatalf("expected valid, got %v", errs)
				}
				return
			}
			if errs == nil {
				t.Fatal("expected validation error")
			}
			if _, ok := errs[tc.wantErr]; !ok {
				t.Errorf("expected error on %q, got %v", tc.wantErr, errs)
			}
		})
	}
}

func TestValidateFieldReportsOnlyThatField(t *testing.T) {
	form := validCreate()
	form.Title = "ab"
	form.Description = "short"

	errs := ValidateField(form, "Title")
	if len(errs) != 1 {
		t.Fatalf("expected exactly one error, got %v", errs)
	}
	if _, ok := errs["title"]; !ok {
		t.Errorf("expected title error, got %v", errs)
	}
}

func TestValidateFieldPassesValidField(t *testing.T) {
	form := validCreate()
	form.Description = "short"

	if errs := ValidateField(form, "Title"); errs != nil {
		t.Errorf("expected no error for valid title, got %v", errs)
	}
}

func TestValidateEditRequiresID(t *testing.T) {
	form := EditTaskForm{
		Title:       "Buy milk",
		Description: "Get 2% milk from the store",
		Date:        "2024-01-01",
	}

	errs := Validate(form)
	if _, ok := errs["id"]; !ok {
		t.Errorf("expected id error, got %v", errs)
	}

	form.ID = "task-1"
	if errs := Validate(form); errs != nil {
		t.Errorf("expected valid edit form, got %v", errs)
	}
}
