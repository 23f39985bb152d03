package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidationError_Error(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		err  *ValidationError
		want string
	}{
		"with line and column": {
			err:  &ValidationError{FilePath: "config.yml", Line: 5, Column: 3, Message: "bad value"},
			want: "config.yml:5:3: bad value",
		},
		"with field": {
			err:  &ValidationError{FilePath: "config.yml", Field: "remote", Message: "is required"},
			want: "config.yml: field 'remote': is required",
		},
		"message only": {
			err:  &ValidationError{FilePath: "config.yml", Message: "permission denied"},
			want: "config.yml: permission denied",
		},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateYAMLSyntax(t *testing.T) {
	t.Parallel()

	writeFile := func(t *testing.T, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "config.yml")
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	t.Run("missing file is valid", func(t *testing.T) {
		t.Parallel()
		if err := ValidateYAMLSyntax(filepath.Join(t.TempDir(), "nope.yml")); err != nil {
			t.Errorf("expected nil for missing file, got %v", err)
		}
	})

	t.Run("empty file is valid", func(t *testing.T) {
		t.Parallel()
		if err := ValidateYAMLSyntax(writeFile(t, "  \n\n")); err != nil {
			t.Errorf("expected nil for empty file, got %v", err)
		}
	})

	t.Run("valid yaml", func(t *testing.T) {
		t.Parallel()
		if err := ValidateYAMLSyntax(writeFile(t, "remote: origin\nbranch: main\n")); err != nil {
			t.Errorf("expected nil for valid yaml, got %v", err)
		}
	})

	t.Run("invalid yaml reports line", func(t *testing.T) {
		t.Parallel()
		err := ValidateYAMLSyntax(writeFile(t, "remote: [unclosed\n"))
		if err == nil {
			t.Fatal("expected error for invalid yaml")
		}

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected *ValidationError, got %T", err)
		}
		if vErr.Line == 0 {
			t.Errorf("expected a line number, got %+v", vErr)
		}
	})

	t.Run("unreadable file", func(t *testing.T) {
		if os.Getuid() == 0 {
			t.Skip("Skipping permission test when running as root")
		}
		t.Parallel()

		path := writeFile(t, "remote: origin\n")
		if err := os.Chmod(path, 0o000); err != nil {
			t.Fatal(err)
		}
		defer os.Chmod(path, 0o644)

		err := ValidateYAMLSyntax(path)
		if err == nil {
			t.Fatal("expected error for unreadable file")
		}
		if !strings.Contains(err.Error(), "permission denied") {
			t.Errorf("error = %q, want permission denied", err.Error())
		}
	})
}

func TestValidateConfigValues(t *testing.T) {
	t.Parallel()

	valid := func() *Configuration {
		return &Configuration{
			Changelog:         "changelog.txt",
			Repo:              ".",
			Remote:            "origin",
			DateFormat:        "2006-01-02",
			StateDir:          "~/.ngsg-release/state",
			MaxHistoryEntries: 500,
		}
	}

	tests := map[string]struct {
		mutate     func(*Configuration)
		wantField  string
		wantErrMsg string
	}{
		"valid config": {
			mutate: func(*Configuration) {},
		},
		"empty branch is valid": {
			mutate: func(c *Configuration) { c.Branch = "" },
		},
		"missing changelog": {
			mutate:     func(c *Configuration) { c.Changelog = "" },
			wantField:  "changelog",
			wantErrMsg: "is required",
		},
		"missing remote": {
			mutate:     func(c *Configuration) { c.Remote = "" },
			wantField:  "remote",
			wantErrMsg: "is required",
		},
		"missing date format": {
			mutate:     func(c *Configuration) { c.DateFormat = "" },
			wantField:  "date_format",
			wantErrMsg: "is required",
		},
		"negative history limit": {
			mutate:     func(c *Configuration) { c.MaxHistoryEntries = -5 },
			wantField:  "max_history_entries",
			wantErrMsg: "must be at least 0",
		},
		"newline in date format": {
			mutate:     func(c *Configuration) { c.DateFormat = "2006\n01-02" },
			wantField:  "date_format",
			wantErrMsg: "must not contain newline characters",
		},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			cfg := valid()
			tt.mutate(cfg)

			err := ValidateConfigValues(cfg, "config.yml")
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}

			if err == nil {
				t.Fatal("expected validation error")
			}
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if vErr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", vErr.Field, tt.wantField)
			}
			if !strings.Contains(vErr.Message, tt.wantErrMsg) {
				t.Errorf("Message = %q, want to contain %q", vErr.Message, tt.wantErrMsg)
			}
		})
	}
}

func TestExtractLineColumn(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		errMsg     string
		wantLine   int
		wantColumn int
	}{
		"line and column": {
			errMsg:     "yaml: line 5: column 3: bad value",
			wantLine:   5,
			wantColumn: 3,
		},
		"line only": {
			errMsg:     "yaml: line 2: did not find expected ',' or ']'",
			wantLine:   2,
			wantColumn: 1,
		},
		"no position info": {
			errMsg:     "something went wrong",
			wantLine:   0,
			wantColumn: 0,
		},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			line, column := extractLineColumn(tt.errMsg)
			if line != tt.wantLine || column != tt.wantColumn {
				t.Errorf("extractLineColumn(%q) = (%d, %d), want (%d, %d)",
					tt.errMsg, line, column, tt.wantLine, tt.wantColumn)
			}
		})
	}
}

func TestToSnakeCase(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		in   string
		want string
	}{
		"single word":   {in: "Changelog", want: "changelog"},
		"two words":     {in: "DateFormat", want: "date_format"},
		"three words":   {in: "MaxHistoryEntries", want: "max_history_entries"},
		"already lower": {in: "remote", want: "remote"},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if got := toSnakeCase(tt.in); got != tt.want {
				t.Errorf("toSnakeCase(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
