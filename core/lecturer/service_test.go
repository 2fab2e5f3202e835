package lecturer_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"

	"github.com/trezcool/kazi/core/lecturer"
	inmemdb "github.com/trezcool/kazi/storage/database/inmem"
	testutil "github.com/trezcool/kazi/tests"
)

func setup(t *testing.T) (*lecturer.Service, lecturer.Repository) {
	db := testutil.OpenDB(t)
	repo := inmemdb.NewLecturerRepository(db)
	return lecturer.NewService(repo), repo
}

func TestNewLecturer_Validate_passwordPolicy(t *testing.T) {
	validate, translator := testutil.NewValidator()
	svc, _ := setup(t)

	tests := []struct {
		name    string
		pwd     string
		wantErr bool
	}{
		{name: "valid", pwd: "LocalHero97!"},
		{name: "too short", pwd: "Lh9!", wantErr: true},
		{name: "whitespace", pwd: "Local Hero97!", wantErr: true},
		{name: "all numeric", pwd: "9781234560", wantErr: true},
		{name: "no uppercase", pwd: "localhero97!", wantErr: true},
		{name: "no digit", pwd: "LocalHero!!", wantErr: true},
		{name: "no special", pwd: "LocalHero97", wantErr: true},
		{name: "similar to email", pwd: "Dosen@kazi.test1", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := lecturer.NewLecturer{
				Email:           "dosen@kazi.test",
				Password:        tt.pwd,
				PasswordConfirm: tt.pwd,
			}
			err := data.Validate(validate, translator, svc)
			if tt.wantErr && err == nil {
				t.Errorf("Validate() = nil, want policy rejection")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate() failed: %v", err)
			}
		})
	}
}

func TestNewLecturer_Validate_basics(t *testing.T) {
	validate, translator := testutil.NewValidator()
	svc, repo := setup(t)
	testutil.CreateLecturer(t, repo, "taken@kazi.test", "LocalHero97!")

	tests := []struct {
		name    string
		data    lecturer.NewLecturer
		wantErr bool
	}{
		{
			name: "valid",
			data: lecturer.NewLecturer{Email: "new@kazi.test", Password: "LocalHero97!", PasswordConfirm: "LocalHero97!"},
		},
		{
			name:    "bad email",
			data:    lecturer.NewLecturer{Email: "nope", Password: "LocalHero97!", PasswordConfirm: "LocalHero97!"},
			wantErr: true,
		},
		{
			name:    "password mismatch",
			data:    lecturer.NewLecturer{Email: "new@kazi.test", Password: "LocalHero97!", PasswordConfirm: "OtherHero97!"},
			wantErr: true,
		},
		{
			name:    "email taken",
			data:    lecturer.NewLecturer{Email: "taken@kazi.test", Password: "LocalHero97!", PasswordConfirm: "LocalHero97!"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.data.Validate(validate, translator, svc)
			if tt.wantErr && err == nil {
				t.Errorf("Validate() = nil, want rejection")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate() failed: %v", err)
			}
		})
	}
}

func TestService_Authenticate(t *testing.T) {
	ctx := context.Background()
	svc, repo := setup(t)
	testutil.CreateLecturer(t, repo, "dosen@kazi.test", "LocalHero97!")

	if _, err := svc.Authenticate(ctx, "dosen@kazi.test", "LocalHero97!"); err != nil {
		t.Errorf("Authenticate() failed: %v", err)
	}
	// email lookup is case-insensitive
	if _, err := svc.Authenticate(ctx, "Dosen@Kazi.Test", "LocalHero97!"); err != nil {
		t.Errorf("Authenticate() with mixed-case email failed: %v", err)
	}

	// same error for bad password and unknown email
	if _, err := svc.Authenticate(ctx, "dosen@kazi.test", "wrong"); errors.Cause(err) != lecturer.ErrNotFound {
		t.Errorf("Authenticate() error = %v, want %v", err, lecturer.ErrNotFound)
	}
	if _, err := svc.Authenticate(ctx, "ghost@kazi.test", "LocalHero97!"); errors.Cause(err) != lecturer.ErrNotFound {
		t.Errorf("Authenticate() error = %v, want %v", err, lecturer.ErrNotFound)
	}
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t)

	lect, err := svc.Register(ctx, lecturer.NewLecturer{
		Email:           "dosen@kazi.test",
		Password:        "LocalHero97!",
		PasswordConfirm: "LocalHero97!",
	})
	if err != nil {
		t.Fatalf("Register() failed: %v", err)
	}
	if err = lect.CheckPassword("LocalHero97!"); err != nil {
		t.Errorf("CheckPassword() failed: %v", err)
	}
}

func TestService_SetPassword(t *testing.T) {
	ctx := context.Background()
	svc, repo := setup(t)
	testutil.CreateLecturer(t, repo, "dosen@kazi.test", "LocalHero97!")

	if err := svc.SetPassword(ctx, "dosen@kazi.test", "NewSecret42?"); err != nil {
		t.Fatalf("SetPassword() failed: %v", err)
	}
	if _, err := svc.Authenticate(ctx, "dosen@kazi.test", "NewSecret42?"); err != nil {
		t.Errorf("Authenticate() with new password failed: %v", err)
	}
	if _, err := svc.Authenticate(ctx, "dosen@kazi.test", "LocalHero97!"); errors.Cause(err) != lecturer.ErrNotFound {
		t.Errorf("old password still accepted")
	}
}
