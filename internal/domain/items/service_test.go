package items

import (
	"context"
	"errors"
	"testing"
	"time"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

var errRepoNotFound = errors.New("repo: not found")

type testRepo struct {
	byID      map[string]Item
	deleteErr error
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Item{}}
}

func (r *testRepo) Create(ctx context.Context, i Item) error {
	if i.ID == "" {
		return errors.New("repo: id required")
	}
	r.byID[i.ID] = i
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Item, error) {
	i, ok := r.byID[id]
	if !ok {
		return Item{}, errRepoNotFound
	}
	return i, nil
}

func (r *testRepo) ListByPatient(ctx context.Context, patientID string) ([]Item, error) {
	out := make([]Item, 0)
	for _, i := range r.byID {
		if i.PatientID == patientID {
			out = append(out, i)
		}
	}
	return out, nil
}

func (r *testRepo) ListByIDs(ctx context.Context, ids []string) ([]Item, error) {
	out := make([]Item, 0)
	for _, id := range ids {
		if i, ok := r.byID[id]; ok {
			out = append(out, i)
		}
	}
	return out, nil
}

func (r *testRepo) UpdateText(ctx context.Context, id, title, text string) error {
	i, ok := r.byID[id]
	if !ok {
		return errRepoNotFound
	}
	i.Title = title
	i.TextContent = text
	r.byID[id] = i
	return nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	if _, ok := r.byID[id]; !ok {
		return errRepoNotFound
	}
	delete(r.byID, id)
	return nil
}

// testPurger registra en qué orden lo llamaron (cascade order).
type testPurger struct {
	calls []string
	err   error
	seq   *[]string
}

func (p *testPurger) DeleteByItem(ctx context.Context, itemID string) error {
	p.calls = append(p.calls, itemID)
	if p.seq != nil {
		*p.seq = append(*p.seq, "notes")
	}
	return p.err
}

// testStore implementa objectstore.Store para los tests.
type testStore struct {
	removed   []string
	removeErr error
	signErr   error
	url       string
	seq       *[]string
}

func (s *testStore) SignedURL(ctx context.Context, bucket, path string, ttl time.Duration) (string, error) {
	if s.signErr != nil {
		return "", s.signErr
	}
	return s.url, nil
}

func (s *testStore) Remove(ctx context.Context, bucket, path string) error {
	s.removed = append(s.removed, bucket+"/"+path)
	if s.seq != nil {
		*s.seq = append(*s.seq, "object")
	}
	return s.removeErr
}

// -------------------------
// Tests
// -------------------------

func TestService_Create_Text(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, nil, nil, nil)

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	it, err := svc.Create(context.Background(), "patient-1", CreateInput{
		Title: "  lunes  ",
		Text:  "  hoy dormí mejor  ",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if it.Kind != KindText {
		t.Fatalf("expected kind text, got %q", it.Kind)
	}
	if it.Title != "lunes" || it.TextContent != "hoy dormí mejor" {
		t.Fatalf("expected trimmed title/text, got %q / %q", it.Title, it.TextContent)
	}
	if it.CreatedAt != now {
		t.Fatalf("expected CreatedAt = now")
	}
	if it.ID == "" {
		t.Fatalf("expected generated ID")
	}
}

func TestService_Create_Text_RejectsEmpty(t *testing.T) {
	svc := NewService(newTestRepo(), nil, nil, nil)

	// ni texto ni storage => inválido
	if _, err := svc.Create(context.Background(), "patient-1", CreateInput{Text: "   "}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	// título solo no alcanza
	if _, err := svc.Create(context.Background(), "patient-1", CreateInput{Title: "solo título"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestService_Create_Binary(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, nil, nil, nil)

	it, err := svc.Create(context.Background(), "patient-1", CreateInput{
		StorageBucket: "journal-media",
		StoragePath:   "patient-1/clip.mp4",
		MimeType:      "video/mp4",
		Kind:          "file",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if it.Kind != KindVideo {
		t.Fatalf("expected classified kind video, got %q", it.Kind)
	}
	if !it.HasStorageObject() {
		t.Fatalf("expected storage object reference")
	}
}

func TestService_Create_Binary_RequiresAllFields(t *testing.T) {
	svc := NewService(newTestRepo(), nil, nil, nil)

	// cualquier campo de storage presente activa la familia binaria,
	// y entonces los tres son obligatorios
	_, err := svc.Create(context.Background(), "patient-1", CreateInput{
		StoragePath: "patient-1/pic.jpg",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestService_Create_Binary_NeverText(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, nil, nil, nil)

	// kind guardado "text" sobre payload binario => file
	it, err := svc.Create(context.Background(), "patient-1", CreateInput{
		StorageBucket: "journal-media",
		StoragePath:   "patient-1/blob.bin",
		MimeType:      "application/octet-stream",
		Kind:          "text",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if it.Kind != KindFile {
		t.Fatalf("expected file, got %q", it.Kind)
	}
}

func TestService_UpdateText_OwnerAndKindChecks(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, nil, nil, nil)

	textItem, err := svc.Create(context.Background(), "patient-1", CreateInput{Text: "v1"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	binItem, err := svc.Create(context.Background(), "patient-1", CreateInput{
		StorageBucket: "b", StoragePath: "p/x.png", MimeType: "image/png",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	// otro paciente no edita
	if _, err := svc.UpdateText(context.Background(), "patient-2", textItem.ID, "", "v2"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	// binario no se edita como texto
	if _, err := svc.UpdateText(context.Background(), "patient-1", binItem.ID, "", "v2"); !errors.Is(err, ErrWrongKind) {
		t.Fatalf("expected ErrWrongKind, got %v", err)
	}
	// texto vacío post-trim se rechaza
	if _, err := svc.UpdateText(context.Background(), "patient-1", textItem.ID, "t", "   "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	// id inexistente
	if _, err := svc.UpdateText(context.Background(), "patient-1", "nope", "", "v2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	got, err := svc.UpdateText(context.Background(), "patient-1", textItem.ID, "  título  ", "  v2  ")
	if err != nil {
		t.Fatalf("UpdateText error: %v", err)
	}
	if got.Title != "título" || got.TextContent != "v2" {
		t.Fatalf("expected trimmed update, got %q / %q", got.Title, got.TextContent)
	}
}

func TestService_Delete_CascadeOrder(t *testing.T) {
	repo := newTestRepo()
	var seq []string
	purger := &testPurger{seq: &seq}
	store := &testStore{seq: &seq}
	svc := NewService(repo, purger, store, nil)

	it, err := svc.Create(context.Background(), "patient-1", CreateInput{
		StorageBucket: "b", StoragePath: "p/x.png", MimeType: "image/png",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	res, err := svc.Delete(context.Background(), "patient-1", it.ID)
	if err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if !res.ObjectRemoved || res.ObjectWarning != "" {
		t.Fatalf("expected clean object removal, got %+v", res)
	}

	// orden fijo: notas primero, objeto después, fila al final
	if len(seq) != 2 || seq[0] != "notes" || seq[1] != "object" {
		t.Fatalf("wrong cascade order: %v", seq)
	}
	if _, err := repo.GetByID(context.Background(), it.ID); err == nil {
		t.Fatalf("expected item row gone")
	}
}

func TestService_Delete_ObjectFailureIsBestEffort(t *testing.T) {
	repo := newTestRepo()
	store := &testStore{removeErr: errors.New("minio: connection refused")}
	svc := NewService(repo, &testPurger{}, store, nil)

	it, _ := svc.Create(context.Background(), "patient-1", CreateInput{
		StorageBucket: "b", StoragePath: "p/x.png", MimeType: "image/png",
	})

	res, err := svc.Delete(context.Background(), "patient-1", it.ID)
	if err != nil {
		t.Fatalf("expected success with warning, got %v", err)
	}
	if res.ObjectRemoved {
		t.Fatalf("expected ObjectRemoved=false")
	}
	if res.ObjectWarning == "" {
		t.Fatalf("expected warning about orphan object")
	}
	// la fila igual se fue
	if _, err := repo.GetByID(context.Background(), it.ID); err == nil {
		t.Fatalf("expected item row gone despite object failure")
	}
}

func TestService_Delete_NotesFailureAborts(t *testing.T) {
	repo := newTestRepo()
	purger := &testPurger{err: errors.New("db down")}
	svc := NewService(repo, purger, nil, nil)

	it, _ := svc.Create(context.Background(), "patient-1", CreateInput{Text: "x"})

	_, err := svc.Delete(context.Background(), "patient-1", it.ID)
	var de *DeleteError
	if !errors.As(err, &de) || de.Step != DeleteStepNotes {
		t.Fatalf("expected DeleteError{notes}, got %v", err)
	}
	// el item sigue ahí: no se borra a medias
	if _, err := repo.GetByID(context.Background(), it.ID); err != nil {
		t.Fatalf("expected item intact after aborted cascade")
	}
}

func TestService_Delete_RowFailureReportsStep(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, &testPurger{}, nil, nil)

	it, _ := svc.Create(context.Background(), "patient-1", CreateInput{Text: "x"})
	repo.deleteErr = errors.New("deadlock")

	_, err := svc.Delete(context.Background(), "patient-1", it.ID)
	var de *DeleteError
	if !errors.As(err, &de) || de.Step != DeleteStepItem {
		t.Fatalf("expected DeleteError{item}, got %v", err)
	}
}

func TestService_Delete_OwnerOnly(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, nil, nil, nil)

	it, _ := svc.Create(context.Background(), "patient-1", CreateInput{Text: "x"})

	if _, err := svc.Delete(context.Background(), "patient-2", it.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Delete(context.Background(), "patient-1", "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestService_SignedLink(t *testing.T) {
	repo := newTestRepo()
	store := &testStore{url: "https://minio/signed"}
	svc := NewService(repo, nil, store, nil)

	bin := Item{ID: "i1", StorageBucket: "b", StoragePath: "p/x.png"}
	url, err := svc.SignedLink(context.Background(), bin, 10*time.Minute)
	if err != nil {
		t.Fatalf("SignedLink error: %v", err)
	}
	if url != "https://minio/signed" {
		t.Fatalf("unexpected url %q", url)
	}

	// item de texto: no hay link
	if _, err := svc.SignedLink(context.Background(), Item{ID: "i2", Kind: KindText}, 0); err == nil {
		t.Fatalf("expected link unavailable for text item")
	}

	// sin store configurado: tampoco
	svcNoStore := NewService(repo, nil, nil, nil)
	if _, err := svcNoStore.SignedLink(context.Background(), bin, 0); err == nil {
		t.Fatalf("expected link unavailable without store")
	}
}

func TestService_OwnerOf(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, nil, nil, nil)

	it, _ := svc.Create(context.Background(), "patient-1", CreateInput{Text: "x"})

	owner, err := svc.OwnerOf(context.Background(), it.ID)
	if err != nil {
		t.Fatalf("OwnerOf error: %v", err)
	}
	if owner != "patient-1" {
		t.Fatalf("expected patient-1, got %q", owner)
	}
	if _, err := svc.OwnerOf(context.Background(), "nope"); err == nil {
		t.Fatalf("expected error for unknown item")
	}
}
