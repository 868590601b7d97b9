package profile

import (
	"errors"
	"strings"
	"testing"

	"github.com/placegrid/placement-core/internal/devicespec"
)

// ====== Name Validation Tests ======

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"valid name", "GPU Workers", nil},
		{"single character", "a", nil},
		{"max length", strings.Repeat("x", maxNameLength), nil},
		{"empty", "", ErrInvalidName},
		{"whitespace only", "   ", ErrInvalidName},
		{"too long", strings.Repeat("x", maxNameLength+1), ErrInvalidName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateName(%q) error = %v, want nil", tt.input, err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateName(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

// ====== Slug Validation Tests ======

func TestValidateSlug(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"valid slug", "gpu-workers", nil},
		{"single word", "trainers", nil},
		{"with digits", "pool-2", nil},
		{"empty", "", ErrInvalidSlug},
		{"uppercase", "GPU-Workers", ErrInvalidSlug},
		{"leading hyphen", "-gpu", ErrInvalidSlug},
		{"trailing hyphen", "gpu-", ErrInvalidSlug},
		{"double hyphen", "gpu--workers", ErrInvalidSlug},
		{"spaces", "gpu workers", ErrInvalidSlug},
		{"too long", strings.Repeat("a", maxSlugLength+1), ErrInvalidSlug},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSlug(tt.input)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateSlug(%q) error = %v, want nil", tt.input, err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateSlug(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

// ====== Spec Validation Tests ======

func TestValidateSpec(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"empty spec is valid", "", nil},
		{"full spec", "/job:worker/replica:0/task:7/device:GPU:3", nil},
		{"short device form", "/gpu:0", nil},
		{"wildcard index", "/device:TPU:*", nil},
		{"unknown attribute", "/gibberish:1", ErrInvalidSpec},
		{"non-numeric task", "/task:abc", ErrInvalidSpec},
		{"duplicate device", "/cpu:0/gpu:1", ErrInvalidSpec},
		{"too long", "/job:" + strings.Repeat("w", maxSpecLength), ErrInvalidSpec},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSpec(tt.input)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateSpec(%q) error = %v, want nil", tt.input, err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateSpec(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateSpecWrapsParseError(t *testing.T) {
	err := ValidateSpec("/bogus:attr")
	if !errors.Is(err, ErrInvalidSpec) {
		t.Errorf("error = %v, want ErrInvalidSpec", err)
	}
	if !errors.Is(err, devicespec.ErrUnknownAttribute) {
		t.Errorf("underlying parse error not reachable via errors.Is: %v", err)
	}
}

func TestValidateProfile(t *testing.T) {
	valid := func() *Profile {
		return &Profile{
			ID:   "prof-001",
			Name: "GPU Workers",
			Slug: "gpu-workers",
			Spec: "/job:worker/device:GPU:*",
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Profile)
		wantErr error
	}{
		{"valid profile", func(_ *Profile) {}, nil},
		{"empty slug allowed", func(p *Profile) { p.Slug = "" }, nil},
		{"empty spec allowed", func(p *Profile) { p.Spec = "" }, nil},
		{"empty name", func(p *Profile) { p.Name = "" }, ErrInvalidName},
		{"bad slug", func(p *Profile) { p.Slug = "Bad Slug" }, ErrInvalidSlug},
		{"bad spec", func(p *Profile) { p.Spec = "/nope:1" }, ErrInvalidSpec},
		{
			"description too long",
			func(p *Profile) { p.Description = strings.Repeat("d", maxDescriptionLength+1) },
			ErrInvalidProfile,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid()
			tt.mutate(p)

			err := ValidateProfile(p)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateProfile() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateProfile() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateProfileNil(t *testing.T) {
	if err := ValidateProfile(nil); !errors.Is(err, ErrInvalidProfile) {
		t.Errorf("ValidateProfile(nil) error = %v, want ErrInvalidProfile", err)
	}
}

// ====== Canonicalisation Tests ======

func TestCanonicalizeSpec(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty stays empty", "", ""},
		{"already canonical", "/job:worker/replica:0/task:7/device:GPU:3", "/job:worker/replica:0/task:7/device:GPU:3"},
		{"short gpu form expands", "/gpu:0", "/device:GPU:0"},
		{"short cpu wildcard", "/cpu:*", "/device:CPU:*"},
		{"long form kind kept verbatim", "/device:gpu:1", "/device:gpu:1"},
		{"custom kind kept verbatim", "/device:TPU:2", "/device:TPU:2"},
		{"fields reordered", "/task:3/job:ps", "/job:ps/task:3"},
		{"empty segments skipped", "//job:worker//", "/job:worker"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CanonicalizeSpec(tt.input)
			if err != nil {
				t.Fatalf("CanonicalizeSpec(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("CanonicalizeSpec(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCanonicalizeSpecInvalid(t *testing.T) {
	_, err := CanonicalizeSpec("/task:notanumber")
	if !errors.Is(err, ErrInvalidSpec) {
		t.Errorf("error = %v, want ErrInvalidSpec", err)
	}
}

// ====== Slug Generation Tests ======

func TestGenerateSlug(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple name", "GPU Workers", "gpu-workers"},
		{"underscores", "ps_pool_main", "ps-pool-main"},
		{"special characters stripped", "Trainers (v2)!", "trainers-v2"},
		{"multiple spaces collapsed", "a   b", "a-b"},
		{"leading and trailing junk", "  --Edge--  ", "edge"},
		{"already a slug", "inference-pool", "inference-pool"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateSlug(tt.input)
			if got != tt.want {
				t.Errorf("GenerateSlug(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestGenerateSlugTruncates(t *testing.T) {
	long := strings.Repeat("abc ", 40)
	slug := GenerateSlug(long)
	if len(slug) > maxSlugLength {
		t.Errorf("GenerateSlug produced %d characters, max is %d", len(slug), maxSlugLength)
	}
	if strings.HasSuffix(slug, "-") {
		t.Errorf("GenerateSlug produced trailing hyphen: %q", slug)
	}
	if err := ValidateSlug(slug); err != nil {
		t.Errorf("generated slug fails validation: %v", err)
	}
}

func TestGenerateID(t *testing.T) {
	a := GenerateID()
	b := GenerateID()
	if a == "" || b == "" {
		t.Fatal("GenerateID returned empty string")
	}
	if a == b {
		t.Errorf("GenerateID returned duplicate IDs: %q", a)
	}
}
