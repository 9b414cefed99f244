package task

import (
	"errors"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		description string
		wantErr     error
	}{
		{name: "valid", title: "write release notes", description: "for v2"},
		{name: "valid without description", title: "triage inbox"},
		{name: "empty title", title: "", wantErr: ErrValidation},
		{name: "title at limit", title: strings.Repeat("a", MaxTitleLength)},
		{name: "title over limit", title: strings.Repeat("a", MaxTitleLength+1), wantErr: ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New(tt.title, tt.description)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("New() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("New() unexpected error: %v", err)
			}
			if got.ID == "" {
				t.Error("New() did not assign an id")
			}
			if got.Status != StatusTodo {
				t.Errorf("New() status = %q, want %q", got.Status, StatusTodo)
			}
			if got.CreatedAt.IsZero() || !got.CreatedAt.Equal(got.UpdatedAt) {
				t.Errorf("New() timestamps createdAt=%v updatedAt=%v", got.CreatedAt, got.UpdatedAt)
			}
		})
	}
}

func TestNew_AssignsUniqueIDs(t *testing.T) {
	a, err := New("first", "")
	if err != nil {
		t.Fatal(err)
	}
	b, err := New("second", "")
	if err != nil {
		t.Fatal(err)
	}
	if a.ID == b.ID {
		t.Fatalf("New() reused id %q", a.ID)
	}
}

func TestStatusIsValid(t *testing.T) {
	valid := []Status{StatusTodo, StatusInProgress, StatusDone}
	for _, s := range valid {
		if !s.IsValid() {
			t.Errorf("IsValid(%q) = false, want true", s)
		}
	}
	invalid := []Status{"", "todo", "SHIPPED", "IN PROGRESS"}
	for _, s := range invalid {
		if s.IsValid() {
			t.Errorf("IsValid(%q) = true, want false", s)
		}
	}
}

func TestErrorCodeRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{name: "validation", err: ErrValidation, code: CodeValidation},
		{name: "not found", err: ErrNotFound, code: CodeNotFound},
		{name: "store", err: ErrStore, code: CodeStore},
		{name: "wrapped validation", err: errors.Join(ErrValidation), code: CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code := Code(tt.err)
			if code != tt.code {
				t.Fatalf("Code() = %q, want %q", code, tt.code)
			}
			// FromCode must preserve the error kind across the boundary.
			back := FromCode(code, tt.err.Error())
			if Code(back) != tt.code {
				t.Errorf("Code(FromCode(%q)) = %q, want %q", code, Code(back), tt.code)
			}
		})
	}
}

func TestFromCode_NotFoundKeepsCleanMessage(t *testing.T) {
	err := FromCode(CodeNotFound, ErrNotFound.Error())
	if err.Error() != ErrNotFound.Error() {
		t.Errorf("FromCode() message = %q, want %q", err.Error(), ErrNotFound.Error())
	}
}
