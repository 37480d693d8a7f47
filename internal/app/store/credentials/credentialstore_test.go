package credentialstore_test

import (
	"errors"
	"testing"
	"time"

	credentialstore "github.com/dalemusser/kinhub/internal/app/store/credentials"
	"github.com/dalemusser/kinhub/internal/app/system/indexes"
	"github.com/dalemusser/kinhub/internal/domain/models"
	"github.com/dalemusser/kinhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
)

func newStore(t *testing.T) (*credentialstore.Store, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}
	return credentialstore.New(db), testutil.NewFixtures(t, db)
}

func TestInsert_NormalizesAndRejectsDuplicates(t *testing.T) {
	s, _ := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cred, err := s.Insert(ctx, models.LoginCredential{
		MemberSerNo:  5,
		Username:     "Keshav@Example.COM",
		Email:        "Keshav@Example.COM",
		PasswordHash: "x",
		Role:         "User",
		IsActive:     true,
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if cred.Username != "keshav@example.com" || cred.Role != "user" {
		t.Errorf("normalization: username=%q role=%q", cred.Username, cred.Role)
	}

	_, err = s.Insert(ctx, models.LoginCredential{
		MemberSerNo:  6,
		Username:     "keshav@example.com",
		PasswordHash: "y",
		Role:         "user",
	})
	if !errors.Is(err, credentialstore.ErrDuplicate) {
		t.Errorf("duplicate insert err = %v, want ErrDuplicate", err)
	}
}

func TestGetByUsername_AcceptsEmail(t *testing.T) {
	s, fx := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateCredential(ctx, 5, "keshav@example.com", "x", "user")

	byEmail, err := s.GetByUsername(ctx, "KESHAV@example.com")
	if err != nil {
		t.Fatalf("lookup by email: %v", err)
	}
	if byEmail.MemberSerNo != 5 {
		t.Errorf("memberSerNo = %d", byEmail.MemberSerNo)
	}

	if _, err := s.GetByUsername(ctx, "nobody@example.com"); !errors.Is(err, credentialstore.ErrNotFound) {
		t.Errorf("missing lookup err = %v, want ErrNotFound", err)
	}
}

func TestRecordFailure_LocksAtThreshold(t *testing.T) {
	s, fx := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cred := fx.CreateCredential(ctx, 5, "keshav@example.com", "x", "user")

	for i := 0; i < 4; i++ {
		if err := s.RecordFailure(ctx, cred.ID); err != nil {
			t.Fatalf("failure %d: %v", i+1, err)
		}
		got, err := s.GetByUsername(ctx, cred.Username)
		if err != nil {
			t.Fatalf("reload: %v", err)
		}
		if got.Locked(time.Now().UTC()) {
			t.Fatalf("locked after %d failures", i+1)
		}
	}

	if err := s.RecordFailure(ctx, cred.ID); err != nil {
		t.Fatalf("fifth failure: %v", err)
	}
	got, err := s.GetByUsername(ctx, cred.Username)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !got.Locked(time.Now().UTC()) {
		t.Error("expected lock after fifth failure")
	}
	if got.FailedAttempts != 5 {
		t.Errorf("failedAttempts = %d, want 5", got.FailedAttempts)
	}
}

func TestRecordSuccess_ClearsFailureState(t *testing.T) {
	s, fx := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cred := fx.CreateCredential(ctx, 5, "keshav@example.com", "x", "user")
	for i := 0; i < 5; i++ {
		if err := s.RecordFailure(ctx, cred.ID); err != nil {
			t.Fatalf("failure: %v", err)
		}
	}

	if err := s.RecordSuccess(ctx, cred.ID); err != nil {
		t.Fatalf("record success: %v", err)
	}

	got, err := s.GetByUsername(ctx, cred.Username)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.FailedAttempts != 0 || got.LockUntil != nil {
		t.Errorf("failure state not cleared: attempts=%d lock=%v", got.FailedAttempts, got.LockUntil)
	}
	if got.LastLogin == nil {
		t.Error("lastLogin not stamped")
	}
}

func TestExistsForEmail(t *testing.T) {
	s, fx := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateCredential(ctx, 5, "keshav@example.com", "x", "user")

	ok, err := s.ExistsForEmail(ctx, "KESHAV@example.com")
	if err != nil || !ok {
		t.Errorf("existing email: ok=%v err=%v", ok, err)
	}
	ok, err = s.ExistsForEmail(ctx, "")
	if err != nil || ok {
		t.Errorf("empty email must report absent without error: ok=%v err=%v", ok, err)
	}
}

func TestClearExpiredLocks(t *testing.T) {
	s, fx := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	expired := fx.CreateCredential(ctx, 5, "expired@example.com", "x", "user")
	active := fx.CreateCredential(ctx, 6, "active@example.com", "x", "user")

	past := time.Now().UTC().Add(-time.Minute)
	future := time.Now().UTC().Add(time.Hour)
	for _, u := range []struct {
		id    interface{}
		until time.Time
	}{{expired.ID, past}, {active.ID, future}} {
		_, err := fx.DB().Collection("logins").UpdateOne(ctx,
			bson.M{"_id": u.id},
			bson.M{"$set": bson.M{"lock_until": u.until, "failed_attempts": 5}})
		if err != nil {
			t.Fatalf("seed lock: %v", err)
		}
	}

	n, err := s.ClearExpiredLocks(ctx)
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if n != 1 {
		t.Errorf("cleaned = %d, want 1", n)
	}

	got, err := s.GetByUsername(ctx, "expired@example.com")
	if err != nil {
		t.Fatalf("reload expired: %v", err)
	}
	if got.LockUntil != nil || got.FailedAttempts != 0 {
		t.Errorf("expired lock not cleared: %+v", got)
	}

	still, err := s.GetByUsername(ctx, "active@example.com")
	if err != nil {
		t.Fatalf("reload active: %v", err)
	}
	if still.LockUntil == nil {
		t.Error("active lock must survive the sweep")
	}
}

func TestDeleteByMemberSerNo_MissingIsNoError(t *testing.T) {
	s, fx := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateCredential(ctx, 5, "keshav@example.com", "x", "user")

	if err := s.DeleteByMemberSerNo(ctx, 5); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.DeleteByMemberSerNo(ctx, 5); err != nil {
		t.Errorf("second delete should be silent: %v", err)
	}
	if _, err := s.GetByMemberSerNo(ctx, 5); !errors.Is(err, credentialstore.ErrNotFound) {
		t.Errorf("credential should be gone, err = %v", err)
	}
}
