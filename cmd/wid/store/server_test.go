package store_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/opst/writerid/cmd/wid/config/profiles"
	"github.com/opst/writerid/cmd/wid/rest"
	"github.com/opst/writerid/cmd/wid/session"
	"github.com/opst/writerid/cmd/wid/store"
	"github.com/opst/writerid/internal/testutils/fakeapi"
	apiauth "github.com/opst/writerid/pkg/api/types/auth"
	apimodels "github.com/opst/writerid/pkg/api/types/models"
	"github.com/opst/writerid/pkg/api/types/status"
	apitasks "github.com/opst/writerid/pkg/api/types/tasks"
	"github.com/rs/zerolog"
)

func connect(t *testing.T, server *fakeapi.Server) (rest.Client, *session.Session) {
	t.Helper()
	sess := session.New(session.NewMemoryStorage())
	client, err := rest.NewClient(&profiles.Profile{ApiRoot: server.Start(t)}, sess)
	if err != nil {
		t.Fatal(err)
	}
	return client, sess
}

func TestStores_WithServer(t *testing.T) {
	t.Run("when an operator goes through the whole workflow, stores follow the server", func(t *testing.T) {
		ctx := context.Background()
		server := fakeapi.New()
		client, sess := connect(t, server)
		logger := zerolog.Nop()

		auth := store.NewAuth(client, sess, logger)
		defer auth.Close()

		if err := auth.Register(ctx, apiauth.RegisterRequest{
			FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com",
			Password: "secret", ConfirmPassword: "secret",
		}); err != nil {
			t.Fatal(err)
		}
		if auth.Snapshot().IsAuthenticated {
			t.Fatal("registration should not sign in")
		}
		if err := auth.Login(ctx, apiauth.LoginRequest{Username: "ada@example.com", Password: "secret"}); err != nil {
			t.Fatal(err)
		}
		if s := auth.Snapshot(); !s.IsAuthenticated || s.User.DisplayName() != "Ada Lovelace" {
			t.Fatalf("unexpected auth state: %+v", s)
		}

		datasets := store.NewDatasets(client, logger)
		created, err := datasets.New(ctx, "letters")
		if err != nil {
			t.Fatal(err)
		}
		if created.SasUrl == "" {
			t.Error("created dataset should carry upload URL")
		}
		if err := datasets.Analyze(ctx, created.Id); err != nil {
			t.Fatal(err)
		}
		if d, _ := datasets.Find(created.Id); d.Status != status.Processing {
			t.Errorf("analyzing dataset: status = %s", d.Status)
		}
		if err := datasets.Refresh(ctx); err != nil {
			t.Fatal(err)
		}
		if d, _ := datasets.Find(created.Id); d.Status != status.Completed {
			t.Errorf("refreshed dataset: status = %s", d.Status)
		}

		models := store.NewModels(client, logger)
		m, err := models.New(ctx, apimodels.CreateRequest{Name: "resnet", DatasetId: created.Id})
		if err != nil {
			t.Fatal(err)
		}
		pd, err := models.TrainingResults(ctx, m.Id)
		if err != nil {
			t.Fatal(err)
		}
		if pd.Accuracy != 0.9 || len(pd.ConfusionMatrix) != 6 {
			t.Errorf("unexpected training results: %+v", pd)
		}
		if err := models.Refresh(ctx); err != nil {
			t.Fatal(err)
		}
		if st := models.Snapshot(); st.Total != 1 {
			t.Errorf("models: total = %d", st.Total)
		}

		tasks := store.NewTasks(client, logger)
		writers, err := tasks.Writers(ctx, created.Id)
		if err != nil {
			t.Fatal(err)
		}
		if len(writers.Writers) != 6 || writers.Writers[0].WriterId != "writer_1" {
			t.Errorf("unexpected writers: %+v", writers)
		}
		task, err := tasks.New(ctx, apitasks.CreateRequest{
			Name:             "who wrote it",
			DatasetId:        created.Id,
			SelectedWriters:  writers.WriterNames[:5],
			ModelId:          m.Id,
			QueryImageBase64: "aGVsbG8=",
		})
		if err != nil {
			t.Fatal(err)
		}
		if task.ModelName != "resnet" {
			t.Errorf("task: model name = %q", task.ModelName)
		}
		if err := tasks.Execute(ctx, task.Id); err != nil {
			t.Fatal(err)
		}
		if err := tasks.Refresh(ctx); err != nil {
			t.Fatal(err)
		}
		if got, _ := tasks.Find(task.Id); got.Status != status.Completed || got.WriterIdentified != "w001" {
			t.Errorf("executed task: %+v", got)
		}
		pr, err := tasks.Prediction(ctx, task.Id)
		if err != nil {
			t.Fatal(err)
		}
		if pr.WriterIdentified != "w001" || pr.ConfidenceString() != "93.0%" {
			t.Errorf("unexpected prediction: %+v", pr)
		}

		dashboard := store.NewDashboard(client, logger)
		if err := dashboard.Fetch(ctx); err != nil {
			t.Fatal(err)
		}
		if st := dashboard.Snapshot().Stats; st.TotalTasks != 1 || st.CompletedTasks != 1 || st.TotalModels != 1 || st.TotalDatasets != 1 {
			t.Errorf("unexpected stats: %+v", st)
		}

		if err := tasks.Remove(ctx, task.Id); err != nil {
			t.Fatal(err)
		}
		if st := tasks.Snapshot(); len(st.Items) != 0 || st.Total != 0 {
			t.Errorf("tasks after removal: %+v", st)
		}
	})

	t.Run("when credentials are wrong, the message from server is kept", func(t *testing.T) {
		ctx := context.Background()
		server := fakeapi.New()
		server.AddUser("ada@example.com", "secret", "Ada", "Lovelace")
		client, sess := connect(t, server)

		auth := store.NewAuth(client, sess, zerolog.Nop())
		defer auth.Close()
		err := auth.Login(ctx, apiauth.LoginRequest{Username: "ada@example.com", Password: "wrong"})
		if !errors.Is(err, rest.ErrUnauthorized) {
			t.Errorf("expected ErrUnauthorized, but got %v", err)
		}
		if s := auth.Snapshot(); s.IsAuthenticated || s.Error != "Invalid credentials" {
			t.Errorf("unexpected auth state: %+v", s)
		}
	})

	t.Run("when the server rejects a request, its reason becomes LastError", func(t *testing.T) {
		ctx := context.Background()
		server := fakeapi.New()
		server.AddUser("ada@example.com", "secret", "Ada", "Lovelace")
		d := server.AddDataset("letters", "w1", "w2", "w3", "w4", "w5")
		client, sess := connect(t, server)
		auth := store.NewAuth(client, sess, zerolog.Nop())
		defer auth.Close()
		if err := auth.Login(ctx, apiauth.LoginRequest{Username: "ada@example.com", Password: "secret"}); err != nil {
			t.Fatal(err)
		}

		tasks := store.NewTasks(client, zerolog.Nop())
		_, err := tasks.New(ctx, apitasks.CreateRequest{
			Name: "too few", DatasetId: d.Id, SelectedWriters: []string{"w1", "w2"},
			UseDefaultModel: true, QueryImageBase64: "aGVsbG8=",
		})
		if err == nil {
			t.Fatal("expected error")
		}
		if actual := tasks.Snapshot().LastError; actual != "at least 5 writers are required" {
			t.Errorf("LastError = %q", actual)
		}
		if actual := rest.StatusCodeOf(err); actual != 400 {
			t.Errorf("status code = %d", actual)
		}
	})

	t.Run("when tokens are revoked, the session is expired and auth is signed out", func(t *testing.T) {
		ctx := context.Background()
		server := fakeapi.New()
		server.AddUser("ada@example.com", "secret", "Ada", "Lovelace")
		server.AddDataset("letters")
		client, sess := connect(t, server)

		expired := false
		sess.SetNavigator(session.NavigatorFunc(func() { expired = true }))

		auth := store.NewAuth(client, sess, zerolog.Nop())
		defer auth.Close()
		if err := auth.Login(ctx, apiauth.LoginRequest{Username: "ada@example.com", Password: "secret"}); err != nil {
			t.Fatal(err)
		}

		datasets := store.NewDatasets(client, zerolog.Nop())
		if err := datasets.Refresh(ctx); err != nil {
			t.Fatal(err)
		}

		server.Revoke()
		err := datasets.Refresh(ctx)
		if !errors.Is(err, rest.ErrUnauthorized) {
			t.Errorf("expected ErrUnauthorized, but got %v", err)
		}
		if !expired {
			t.Error("navigator is not called")
		}
		if auth.Snapshot().IsAuthenticated {
			t.Error("auth should be signed out")
		}
		if sess.Token() != "" {
			t.Error("token should be cleared")
		}
		if st := datasets.Snapshot(); len(st.Items) != 1 {
			t.Errorf("items should be kept on failure: %+v", st.Items)
		}

		requests := server.Requests()
		if !slices.Contains(requests, "GET /api/v1/Datasets") {
			t.Errorf("unexpected requests: %v", requests)
		}
	})
}
