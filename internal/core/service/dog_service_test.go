package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/d1sgu1sed/DogCollars/internal/core/domain"
	"github.com/d1sgu1sed/DogCollars/internal/core/ports"
)

type dogFixture struct {
	svc   *DogService
	dogs  *stubDogRepo
	tasks *stubTaskRepo
	idem  *stubIdempotency
}

func newDogFixture() *dogFixture {
	f := &dogFixture{
		dogs:  newStubDogRepo(),
		tasks: newStubTaskRepo(),
		idem:  newStubIdempotency(),
	}
	f.svc = NewDogService(f.dogs, f.tasks, &stubTx{}, f.idem, discardLogger)
	return f
}

func (f *dogFixture) create(t *testing.T, actor *domain.User, name string) *domain.Dog {
	t.Helper()
	dog, err := f.svc.CreateDog(context.Background(), actor, ports.CreateDogInput{
		Name:     name,
		Gender:   domain.GenderMale,
		Location: ptr(dogSpot),
	})
	if err != nil {
		t.Fatalf("CreateDog(%s) returned error: %v", name, err)
	}
	return dog
}

func TestDogService_CreateDog_Success(t *testing.T) {
	f := newDogFixture()
	alice := plainUser("alice")

	dog := f.create(t, alice, "Jack")
	if dog.ID == "" {
		t.Fatal("expected generated id")
	}
	if dog.CreatedBy != alice.ID {
		t.Fatalf("expected created_by %s, got %s", alice.ID, dog.CreatedBy)
	}
	if !dog.IsActive {
		t.Fatal("new dog must be active")
	}
}

func TestDogService_CreateDog_DuplicateName(t *testing.T) {
	f := newDogFixture()
	alice := plainUser("alice")
	jack := f.create(t, alice, "Jack")

	_, err := f.svc.CreateDog(context.Background(), alice, ports.CreateDogInput{Name: "Jack", Gender: domain.GenderFemale})
	if !errors.Is(err, domain.ErrDogExists) {
		t.Fatalf("expected ErrDogExists, got %v", err)
	}
	if !strings.Contains(err.Error(), "Jack") {
		t.Errorf("conflict message should name the dog, got %q", err.Error())
	}

	// Names stay reserved after deactivation.
	if _, err := f.svc.DeleteDog(context.Background(), alice, jack.ID); err != nil {
		t.Fatalf("DeleteDog returned error: %v", err)
	}
	if _, err := f.svc.CreateDog(context.Background(), alice, ports.CreateDogInput{Name: "Jack", Gender: domain.GenderMale}); !errors.Is(err, domain.ErrDogExists) {
		t.Fatalf("expected ErrDogExists for inactive name, got %v", err)
	}

	// Case-sensitive.
	f.create(t, alice, "jack")
}

func TestDogService_CreateDog_IdempotentReplay(t *testing.T) {
	f := newDogFixture()
	alice := plainUser("alice")
	in := ports.CreateDogInput{Name: "Rex", Gender: domain.GenderMale, IdempotencyKey: "key-1"}

	first, err := f.svc.CreateDog(context.Background(), alice, in)
	if err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	second, err := f.svc.CreateDog(context.Background(), alice, in)
	if err != nil {
		t.Fatalf("replayed create failed: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("replay must return the original dog, got %s and %s", first.ID, second.ID)
	}
	if len(f.dogs.dogs) != 1 {
		t.Fatalf("expected one stored dog, got %d", len(f.dogs.dogs))
	}

	// Another actor using the same key gets a fresh create.
	if _, err := f.svc.CreateDog(context.Background(), plainUser("bob"), in); !errors.Is(err, domain.ErrDogExists) {
		t.Fatalf("keys must be scoped per actor, got %v", err)
	}
}

func TestDogService_CreateDog_ReplayAfterDelete(t *testing.T) {
	f := newDogFixture()
	ctx := context.Background()
	alice := plainUser("alice")
	in := ports.CreateDogInput{Name: "Rex", Gender: domain.GenderMale, IdempotencyKey: "key-1"}

	first, err := f.svc.CreateDog(ctx, alice, in)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := f.svc.DeleteDog(ctx, alice, first.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	again, err := f.svc.CreateDog(ctx, alice, in)
	if err != nil {
		t.Fatalf("retry after delete must replay, got %v", err)
	}
	if again.ID != first.ID || again.IsActive {
		t.Fatalf("expected the deactivated dog, got %+v", again)
	}
	if len(f.dogs.dogs) != 1 {
		t.Fatalf("expected one stored dog, got %d", len(f.dogs.dogs))
	}
}

func TestDogService_CreateDog_IdempotencyStoreDown(t *testing.T) {
	f := newDogFixture()
	f.idem.lookupErr = errors.New("redis down")

	_, err := f.svc.CreateDog(context.Background(), plainUser("alice"), ports.CreateDogInput{Name: "Rex", Gender: domain.GenderMale, IdempotencyKey: "k"})
	if err != nil {
		t.Fatalf("store failures must not block creation, got %v", err)
	}
}

func TestDogService_UpdateDog_Permissions(t *testing.T) {
	f := newDogFixture()
	alice := plainUser("alice")
	dog := f.create(t, alice, "Jack")
	patch := ports.UpdateDogInput{Gender: ptr(domain.GenderFemale)}

	cases := []struct {
		name    string
		actor   *domain.User
		wantErr error
	}{
		{"other user", plainUser("bob"), domain.ErrForbidden},
		{"creator", alice, nil},
		{"admin", adminUser("admin"), nil},
		{"superadmin", superAdminUser("root"), nil},
	}

	for _, tc := range cases {
		_, err := f.svc.UpdateDog(context.Background(), tc.actor, dog.ID, patch)
		if !errors.Is(err, tc.wantErr) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.wantErr, err)
		}
	}
}

func TestDogService_UpdateDog_RenameConflict(t *testing.T) {
	f := newDogFixture()
	alice := plainUser("alice")
	f.create(t, alice, "Jack")
	rex := f.create(t, alice, "Rex")

	_, err := f.svc.UpdateDog(context.Background(), alice, rex.ID, ports.UpdateDogInput{Name: ptr("Jack")})
	if !errors.Is(err, domain.ErrDogExists) {
		t.Fatalf("expected ErrDogExists, got %v", err)
	}
}

func TestDogService_UpdateDog_EmptyPatch(t *testing.T) {
	f := newDogFixture()
	alice := plainUser("alice")
	dog := f.create(t, alice, "Jack")

	if _, err := f.svc.UpdateDog(context.Background(), alice, dog.ID, ports.UpdateDogInput{}); !errors.Is(err, domain.ErrEmptyPatch) {
		t.Fatalf("expected ErrEmptyPatch, got %v", err)
	}
}

func TestDogService_UpdateDogLocation(t *testing.T) {
	f := newDogFixture()
	alice := plainUser("alice")
	dog := f.create(t, alice, "Jack")

	updated, err := f.svc.UpdateDogLocation(context.Background(), alice, dog.ID, farSpot)
	if err != nil {
		t.Fatalf("UpdateDogLocation returned error: %v", err)
	}
	if *updated.Location != farSpot {
		t.Fatalf("unexpected location %+v", updated.Location)
	}

	if _, err := f.svc.UpdateDogLocation(context.Background(), plainUser("bob"), dog.ID, dogSpot); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestDogService_DeleteDog_CascadesTasks(t *testing.T) {
	f := newDogFixture()
	alice := plainUser("alice")
	dog := f.create(t, alice, "Jack")
	other := f.create(t, alice, "Rex")

	for _, task := range []*domain.Task{
		{ID: "t-1", CreatedFor: dog.ID, IsActive: true},
		{ID: "t-2", CreatedFor: dog.ID, IsActive: true},
		{ID: "t-3", CreatedFor: other.ID, IsActive: true},
		{ID: "t-4", CreatedFor: dog.ID, IsActive: false, ClosedBy: "bob"},
	} {
		_ = f.tasks.Create(context.Background(), task)
	}

	res, err := f.svc.DeleteDog(context.Background(), alice, dog.ID)
	if err != nil {
		t.Fatalf("DeleteDog returned error: %v", err)
	}
	if res.DogID != dog.ID {
		t.Fatalf("unexpected dog id %s", res.DogID)
	}
	if strings.Join(res.CancelledTaskIDs, ",") != "t-1,t-2" {
		t.Fatalf("unexpected cancelled tasks %v", res.CancelledTaskIDs)
	}
	if !f.tasks.tasks["t-3"].IsActive {
		t.Fatal("tasks of other dogs must stay active")
	}
	if f.tasks.tasks["t-4"].ClosedBy != "bob" {
		t.Fatal("closed tasks must keep their closer")
	}
	if _, err := f.svc.GetDog(context.Background(), dog.ID); !errors.Is(err, domain.ErrDogNotFound) {
		t.Fatalf("deactivated dog must read as not found, got %v", err)
	}
}

func TestDogService_DeleteDog_Forbidden(t *testing.T) {
	f := newDogFixture()
	dog := f.create(t, plainUser("alice"), "Jack")

	if _, err := f.svc.DeleteDog(context.Background(), plainUser("bob"), dog.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := f.svc.GetDog(context.Background(), dog.ID); err != nil {
		t.Fatalf("dog must remain after a denied delete: %v", err)
	}
}

func TestDogService_GetDogByName(t *testing.T) {
	f := newDogFixture()
	dog := f.create(t, plainUser("alice"), "Jack")

	got, err := f.svc.GetDogByName(context.Background(), "Jack")
	if err != nil {
		t.Fatalf("GetDogByName returned error: %v", err)
	}
	if got.ID != dog.ID {
		t.Fatalf("expected %s, got %s", dog.ID, got.ID)
	}
	if _, err := f.svc.GetDogByName(context.Background(), "Nobody"); !errors.Is(err, domain.ErrDogNotFound) {
		t.Fatalf("expected ErrDogNotFound, got %v", err)
	}
}
