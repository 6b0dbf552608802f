package forms_test

import (
	"bytes"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/opst/writerid/cmd/wid/forms"
)

type validatable interface {
	Validate() error
}

// then lists fields expected to be rejected. Empty means accepted.
func theory(when validatable, then ...string) func(*testing.T) {
	return func(t *testing.T) {
		err := when.Validate()
		if len(then) == 0 {
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			return
		}

		if !errors.Is(err, forms.ErrInvalid) {
			t.Fatalf("error is not ErrInvalid: %v", err)
		}
		var ie *forms.InvalidError
		if !errors.As(err, &ie) {
			t.Fatalf("error is not InvalidError: %v", err)
		}
		if len(ie.Fields) != len(then) {
			t.Errorf("rejected fields: (actual, expected) = (%+v, %v)", ie.Fields, then)
		}
		for _, f := range then {
			if ie.Message(f) == "" {
				t.Errorf("%s is not rejected: %+v", f, ie.Fields)
			}
		}
	}
}

func TestLogin(t *testing.T) {
	t.Run("when username and password are long enough, it is accepted", theory(
		forms.Login{Username: "ann", Password: "secret"},
	))
	t.Run("when username is too short, it is rejected", theory(
		forms.Login{Username: " an ", Password: "secret"}, "username",
	))
	t.Run("when password is too short, it is rejected", theory(
		forms.Login{Username: "ann", Password: "12345"}, "password",
	))
}

func TestRegister(t *testing.T) {
	valid := forms.Register{
		FirstName: "Ann", LastName: "Lee", Email: "ann@example.com",
		Password: "password1", ConfirmPassword: "password1",
	}
	t.Run("when every field is valid, it is accepted", theory(valid))

	mismatch := valid
	mismatch.ConfirmPassword = "password2"
	t.Run("when confirmation differs, it is rejected", theory(mismatch, "confirmPassword"))

	bad := valid
	bad.FirstName = "A"
	bad.Email = "not-an-email"
	bad.Password = "short"
	bad.ConfirmPassword = "short"
	t.Run("when fields are malformed, each is rejected", theory(bad, "firstName", "email", "password"))
}

func TestDatasetAndModel(t *testing.T) {
	t.Run("when dataset name is blank, it is rejected", theory(forms.Dataset{Name: "  "}, "name"))
	t.Run("when dataset name is given, it is accepted", theory(forms.Dataset{Name: "letters"}))
	t.Run("when model has no dataset, it is rejected", theory(forms.Model{Name: "m"}, "datasetId"))
	t.Run("when model has name and dataset, it is accepted", theory(forms.Model{Name: "m", DatasetId: "d1"}))
}

func TestTask(t *testing.T) {
	valid := forms.Task{
		Name:             "who wrote this",
		DatasetId:        "d1",
		SelectedWriters:  []string{"alice", "bob", "carol", "dave", "erin"},
		UseDefaultModel:  true,
		QueryImageBase64: "aGVsbG8=",
	}
	t.Run("when five writers and the default model are chosen, it is accepted", theory(valid))

	few := valid
	few.SelectedWriters = valid.SelectedWriters[:forms.MinWriters-1]
	t.Run("when less than five writers are chosen, it is rejected", theory(few, "selectedWriters"))

	dup := valid
	dup.SelectedWriters = []string{"alice", "bob", "carol", "dave", "alice"}
	t.Run("when writers are duplicated, it is rejected", theory(dup, "selectedWriters"))

	blank := valid
	blank.SelectedWriters = []string{"alice", "bob", "carol", "dave", " "}
	t.Run("when a writer is blank, it is rejected", theory(blank, "selectedWriters"))

	noModel := valid
	noModel.UseDefaultModel = false
	t.Run("when neither default nor trained model is chosen, it is rejected", theory(noModel, "modelId"))

	trained := noModel
	trained.ModelId = "m1"
	t.Run("when a trained model is chosen, it is accepted", theory(trained))

	noImage := valid
	noImage.QueryImageBase64 = ""
	t.Run("when no image is given, it is rejected", theory(noImage, "queryImageBase64"))

	t.Run("when the default model is used, modelId is not sent", func(t *testing.T) {
		f := valid
		f.ModelId = "m1"
		if req := f.Request(); req.ModelId != "" || !req.UseDefaultModel {
			t.Errorf("unexpected request: %+v", req)
		}
		if req := trained.Request(); req.ModelId != "m1" || req.UseDefaultModel {
			t.Errorf("unexpected request: %+v", req)
		}
	})
}

func TestEncodeImage(t *testing.T) {
	png := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 32)...)

	t.Run("when the file is an image, it is encoded in plain base64", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "query.png")
		if err := os.WriteFile(path, png, 0600); err != nil {
			t.Fatal(err)
		}
		progress := new(bytes.Buffer)

		actual, err := forms.EncodeImage(path, progress)
		if err != nil {
			t.Fatal(err)
		}
		if actual != base64.StdEncoding.EncodeToString(png) {
			t.Errorf("unexpected encoding: %s", actual)
		}
	})

	t.Run("when the file is not an image, it returns ErrNotImage", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "note.txt")
		if err := os.WriteFile(path, []byte("plain text"), 0600); err != nil {
			t.Fatal(err)
		}
		if _, err := forms.EncodeImage(path, nil); !errors.Is(err, forms.ErrNotImage) {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("when the file does not exist, it returns an error", func(t *testing.T) {
		if _, err := forms.EncodeImage(filepath.Join(t.TempDir(), "missing.png"), nil); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("unexpected error: %v", err)
		}
	})
}
