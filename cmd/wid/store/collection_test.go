package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/opst/writerid/cmd/wid/rest"
	"github.com/opst/writerid/cmd/wid/rest/mock"
	"github.com/opst/writerid/cmd/wid/store"
	apidatasets "github.com/opst/writerid/pkg/api/types/datasets"
	"github.com/opst/writerid/pkg/api/types/status"
	apitasks "github.com/opst/writerid/pkg/api/types/tasks"
	"github.com/rs/zerolog"
)

func datasetIds(items []apidatasets.Detail) []string {
	ids := []string{}
	for _, d := range items {
		ids = append(ids, d.Id)
	}
	return ids
}

func equalIds(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func loadedDatasets(t *testing.T, client *mock.MockClient, items ...apidatasets.Detail) *store.Datasets {
	t.Helper()
	client.Impl.ListDatasets = func(ctx context.Context) (rest.Page[apidatasets.Detail], error) {
		return rest.Page[apidatasets.Detail]{Items: items, Total: len(items)}, nil
	}
	testee := store.NewDatasets(client, zerolog.Nop())
	if err := testee.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	return testee
}

func TestCollection_FetchAll(t *testing.T) {
	t.Run("when fetch succeeds, it replaces items and total", func(t *testing.T) {
		client := mock.New(t)
		testee := loadedDatasets(t, client,
			apidatasets.Detail{Id: "d1"}, apidatasets.Detail{Id: "d2"},
		)

		client.Impl.ListDatasets = func(ctx context.Context) (rest.Page[apidatasets.Detail], error) {
			s := testee.Snapshot()
			if !s.IsLoading {
				t.Error("IsLoading is not set during fetch")
			}
			return rest.Page[apidatasets.Detail]{Items: []apidatasets.Detail{{Id: "d3"}}, Total: 7}, nil
		}
		if err := testee.Refresh(context.Background()); err != nil {
			t.Fatal(err)
		}

		s := testee.Snapshot()
		if !equalIds(datasetIds(s.Items), []string{"d3"}) || s.Total != 7 {
			t.Errorf("unexpected state: %+v", s)
		}
		if s.IsLoading || s.LastError != "" {
			t.Errorf("flags are not reset: %+v", s)
		}
	})

	type when struct {
		err error
	}
	type then struct {
		lastError string
	}
	theory := func(when when, then then) func(*testing.T) {
		return func(t *testing.T) {
			client := mock.New(t)
			testee := loadedDatasets(t, client, apidatasets.Detail{Id: "d1"})

			client.Impl.ListDatasets = func(ctx context.Context) (rest.Page[apidatasets.Detail], error) {
				return rest.Page[apidatasets.Detail]{}, when.err
			}
			if err := testee.Refresh(context.Background()); !errors.Is(err, when.err) {
				t.Fatalf("unexpected error: %v", err)
			}

			s := testee.Snapshot()
			if s.LastError != then.lastError {
				t.Errorf("LastError: (actual, expected) = (%q, %q)", s.LastError, then.lastError)
			}
			if !equalIds(datasetIds(s.Items), []string{"d1"}) || s.Total != 1 || s.IsLoading {
				t.Errorf("state is broken: %+v", s)
			}
		}
	}

	t.Run("when the server tells a reason, it is LastError and items are kept", theory(
		when{err: &rest.APIError{StatusCode: 400, Message: "quota exceeded"}},
		then{lastError: "quota exceeded"},
	))
	t.Run("when the server tells nothing, the fallback is LastError", theory(
		when{err: &rest.APIError{StatusCode: 500}},
		then{lastError: store.FallbackMessage},
	))
	t.Run("when the request does not reach, the fallback is LastError", theory(
		when{err: rest.ErrConnection},
		then{lastError: store.FallbackMessage},
	))
}

func TestCollection_Create(t *testing.T) {
	t.Run("when a new entity is created, it is prepended and total grows", func(t *testing.T) {
		client := mock.New(t)
		testee := loadedDatasets(t, client, apidatasets.Detail{Id: "d1"})
		client.Impl.CreateDataset = func(ctx context.Context, name string) (apidatasets.Detail, error) {
			return apidatasets.Detail{Id: "d2", Name: name, SasUrl: "https://blob/x"}, nil
		}

		created, err := testee.New(context.Background(), "letters")
		if err != nil {
			t.Fatal(err)
		}
		if created.SasUrl != "https://blob/x" {
			t.Errorf("upload url is lost: %+v", created)
		}
		s := testee.Snapshot()
		if !equalIds(datasetIds(s.Items), []string{"d2", "d1"}) || s.Total != 2 {
			t.Errorf("unexpected state: %+v", s)
		}
		if len(client.Calls.CreateDataset) != 1 || client.Calls.CreateDataset[0] != "letters" {
			t.Errorf("unexpected calls: %+v", client.Calls.CreateDataset)
		}
	})

	t.Run("when the created entity is already listed, it is replaced in place", func(t *testing.T) {
		client := mock.New(t)
		testee := loadedDatasets(t, client, apidatasets.Detail{Id: "d1"}, apidatasets.Detail{Id: "d2"})
		client.Impl.CreateDataset = func(ctx context.Context, name string) (apidatasets.Detail, error) {
			return apidatasets.Detail{Id: "d2", Name: name}, nil
		}

		if _, err := testee.New(context.Background(), "again"); err != nil {
			t.Fatal(err)
		}
		s := testee.Snapshot()
		if !equalIds(datasetIds(s.Items), []string{"d1", "d2"}) || s.Total != 2 || s.Items[1].Name != "again" {
			t.Errorf("unexpected state: %+v", s)
		}
	})
}

func TestCollection_Delete(t *testing.T) {
	t.Run("when a listed entity is deleted, it is removed and total shrinks", func(t *testing.T) {
		client := mock.New(t)
		testee := loadedDatasets(t, client, apidatasets.Detail{Id: "d1"}, apidatasets.Detail{Id: "d2"})
		client.Impl.DeleteDataset = func(ctx context.Context, datasetId string) error { return nil }

		if err := testee.Remove(context.Background(), "d1"); err != nil {
			t.Fatal(err)
		}
		s := testee.Snapshot()
		if !equalIds(datasetIds(s.Items), []string{"d2"}) || s.Total != 1 {
			t.Errorf("unexpected state: %+v", s)
		}
	})

	t.Run("when an unlisted entity is deleted, total is kept", func(t *testing.T) {
		client := mock.New(t)
		testee := loadedDatasets(t, client, apidatasets.Detail{Id: "d1"})
		client.Impl.DeleteDataset = func(ctx context.Context, datasetId string) error { return nil }

		if err := testee.Remove(context.Background(), "d9"); err != nil {
			t.Fatal(err)
		}
		s := testee.Snapshot()
		if !equalIds(datasetIds(s.Items), []string{"d1"}) || s.Total != 1 {
			t.Errorf("unexpected state: %+v", s)
		}
	})

	t.Run("when delete fails, items are kept", func(t *testing.T) {
		client := mock.New(t)
		testee := loadedDatasets(t, client, apidatasets.Detail{Id: "d1"})
		client.Impl.DeleteDataset = func(ctx context.Context, datasetId string) error {
			return &rest.APIError{StatusCode: 409, Message: "dataset is in use"}
		}

		if err := testee.Remove(context.Background(), "d1"); err == nil {
			t.Fatal("expected error")
		}
		s := testee.Snapshot()
		if !equalIds(datasetIds(s.Items), []string{"d1"}) || s.LastError != "dataset is in use" {
			t.Errorf("unexpected state: %+v", s)
		}
	})
}

func TestCollection_Delete_Selection(t *testing.T) {
	t.Run("when another entity is deleted, current is kept", func(t *testing.T) {
		client := mock.New(t)
		client.Impl.ListTasks = func(ctx context.Context) (rest.Page[apitasks.Detail], error) {
			return rest.Page[apitasks.Detail]{
				Items: []apitasks.Detail{{Id: "t1"}, {Id: "t2"}},
				Total: 2,
			}, nil
		}
		client.Impl.GetTask = func(ctx context.Context, taskId string) (apitasks.Detail, error) {
			return apitasks.Detail{Id: taskId, Name: "selected"}, nil
		}
		client.Impl.DeleteTask = func(ctx context.Context, taskId string) error { return nil }

		testee := store.NewTasks(client, zerolog.Nop())
		if err := testee.Refresh(context.Background()); err != nil {
			t.Fatal(err)
		}
		if _, err := testee.Get(context.Background(), "t1"); err != nil {
			t.Fatal(err)
		}
		if err := testee.Remove(context.Background(), "t2"); err != nil {
			t.Fatal(err)
		}

		s := testee.Snapshot()
		if s.Current == nil || s.Current.Id != "t1" || s.Current.Name != "selected" {
			t.Errorf("current is changed: %+v", s.Current)
		}
		if len(s.Items) != 1 || s.Items[0].Id != "t1" || s.Total != 1 {
			t.Errorf("unexpected items: %+v", s)
		}
	})
}

func TestCollection_Act(t *testing.T) {
	t.Run("when an action succeeds, the entity is patched to processing", func(t *testing.T) {
		client := mock.New(t)
		testee := loadedDatasets(t, client,
			apidatasets.Detail{Id: "d1", Status: status.Created},
			apidatasets.Detail{Id: "d2", Status: status.Created},
		)
		client.Impl.StartAnalysis = func(ctx context.Context, datasetId string) error {
			if !testee.Snapshot().IsActing {
				t.Error("IsActing is not set during action")
			}
			return nil
		}

		if err := testee.Analyze(context.Background(), "d2"); err != nil {
			t.Fatal(err)
		}
		s := testee.Snapshot()
		if s.Items[0].Status != status.Created || s.Items[1].Status != status.Processing {
			t.Errorf("unexpected state: %+v", s)
		}
		if s.IsActing {
			t.Error("IsActing is not reset")
		}
	})

	t.Run("when an action fails, the status is kept", func(t *testing.T) {
		client := mock.New(t)
		testee := loadedDatasets(t, client, apidatasets.Detail{Id: "d1", Status: status.Created})
		client.Impl.StartAnalysis = func(ctx context.Context, datasetId string) error {
			return &rest.APIError{StatusCode: 400, Message: "no files uploaded"}
		}

		if err := testee.Analyze(context.Background(), "d1"); err == nil {
			t.Fatal("expected error")
		}
		s := testee.Snapshot()
		if s.Items[0].Status != status.Created || s.LastError != "no files uploaded" || s.IsActing {
			t.Errorf("unexpected state: %+v", s)
		}
	})
}

func TestCollection_FetchOne(t *testing.T) {
	t.Run("when an entity is fetched, it becomes current and the listed one is refreshed", func(t *testing.T) {
		client := mock.New(t)
		client.Impl.ListTasks = func(ctx context.Context) (rest.Page[apitasks.Detail], error) {
			return rest.Page[apitasks.Detail]{
				Items: []apitasks.Detail{{Id: "t1", Status: status.Processing}},
				Total: 1,
			}, nil
		}
		client.Impl.GetTask = func(ctx context.Context, taskId string) (apitasks.Detail, error) {
			return apitasks.Detail{Id: taskId, Status: status.Completed, WriterIdentified: "alice"}, nil
		}
		client.Impl.DeleteTask = func(ctx context.Context, taskId string) error { return nil }

		testee := store.NewTasks(client, zerolog.Nop())
		if err := testee.Refresh(context.Background()); err != nil {
			t.Fatal(err)
		}
		if _, err := testee.Get(context.Background(), "t1"); err != nil {
			t.Fatal(err)
		}

		s := testee.Snapshot()
		if s.Current == nil || s.Current.WriterIdentified != "alice" {
			t.Errorf("current is not set: %+v", s)
		}
		if s.Items[0].Status != status.Completed {
			t.Errorf("listed task is not refreshed: %+v", s.Items)
		}

		// snapshot is a copy
		s.Items[0].Name = "changed"
		if testee.Snapshot().Items[0].Name == "changed" {
			t.Error("snapshot shares items")
		}

		if err := testee.Remove(context.Background(), "t1"); err != nil {
			t.Fatal(err)
		}
		if s := testee.Snapshot(); s.Current != nil || len(s.Items) != 0 || s.Total != 0 {
			t.Errorf("deleted task remains: %+v", s)
		}
	})
}
