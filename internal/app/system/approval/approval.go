// internal/app/system/approval/approval.go

// Package approval implements the registration decision workflow: an
// admin approves or rejects a pending submission, and approval mints a
// member record (with a freshly allocated serNo) plus, when the form
// carries an unclaimed email, a login credential with a temporary
// password. Both submission kinds run through the same procedure.
package approval

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	credentialstore "github.com/dalemusser/kinhub/internal/app/store/credentials"
	memberstore "github.com/dalemusser/kinhub/internal/app/store/members"
	submissionstore "github.com/dalemusser/kinhub/internal/app/store/submissions"
	"github.com/dalemusser/kinhub/internal/app/system/txn"
	"github.com/dalemusser/kinhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrNotFound: no submission with that id.
	ErrNotFound = errors.New("submission not found")

	// ErrAlreadyApproved: the submission was approved earlier; the
	// decision stands and is not repeated.
	ErrAlreadyApproved = errors.New("submission already approved")

	// ErrAlreadyProcessed: the submission already left the pending
	// state (rejected, or approved by a concurrent request).
	ErrAlreadyProcessed = errors.New("submission already processed")

	// ErrValidation: the form data cannot produce a member record.
	ErrValidation = errors.New("submission form is invalid")

	// ErrTransient: serNo allocation kept colliding; the caller should
	// retry the whole approval.
	ErrTransient = errors.New("could not allocate a serial number, retry")
)

// allocAttempts bounds the serNo allocate-insert retry loop.
const allocAttempts = 3

// SubmissionStore is the slice of the submission store the workflow needs.
type SubmissionStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.PendingSubmission, error)
	MarkApproved(ctx context.Context, id primitive.ObjectID, reviewer, comments string, memberSerNo int, at time.Time) error
	MarkRejected(ctx context.Context, id primitive.ObjectID, reviewer, reason string, at time.Time) error
}

// MemberStore is the slice of the member store the workflow needs.
type MemberStore interface {
	NextSerNo(ctx context.Context) (int, error)
	Insert(ctx context.Context, m models.Member) (models.Member, error)
	DeleteBySerNo(ctx context.Context, serNo int) error
}

// CredentialStore is the slice of the credential store the workflow needs.
type CredentialStore interface {
	ExistsForEmail(ctx context.Context, email string) (bool, error)
	Insert(ctx context.Context, cred models.LoginCredential) (models.LoginCredential, error)
	DeleteByMemberSerNo(ctx context.Context, serNo int) error
}

// Service runs approval decisions. When Client is set and the deployment
// supports multi-document transactions, each approval commits atomically;
// otherwise the writes are sequenced with explicit rollback on failure.
type Service struct {
	Subs    SubmissionStore
	Members MemberStore
	Creds   CredentialStore

	Client     *mongo.Client // optional; nil forces the sequenced path
	BcryptCost int
	Log        *zap.Logger
	Now        func() time.Time
}

// Result reports what an approval produced. TemporaryPasswordHint is a
// masked preview of the generated password; the plaintext is never
// stored or returned.
type Result struct {
	Member                models.Member
	CredentialCreated     bool
	TemporaryPasswordHint string
}

// Approve decides a pending submission: mint a member, optionally mint a
// credential, and stamp the submission approved.
func (s *Service) Approve(ctx context.Context, id primitive.ObjectID, approver, comments string) (Result, error) {
	if s.Client != nil {
		var res Result
		err := txn.Run(ctx, s.Client, func(sc context.Context) error {
			var err error
			res, err = s.approve(sc, id, approver, comments)
			return err
		})
		if err == nil {
			return res, nil
		}
		if !txn.IsNotSupported(err) {
			return Result{}, err
		}
		s.log().Info("transactions unsupported, using sequenced writes")
	}
	return s.approve(ctx, id, approver, comments)
}

func (s *Service) approve(ctx context.Context, id primitive.ObjectID, approver, comments string) (Result, error) {
	sub, err := s.Subs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, submissionstore.ErrNotFound) {
			return Result{}, ErrNotFound
		}
		return Result{}, err
	}
	switch sub.Status {
	case models.StatusPending:
	case models.StatusApproved:
		return Result{}, ErrAlreadyApproved
	default:
		return Result{}, ErrAlreadyProcessed
	}

	if strings.TrimSpace(sub.Form.FirstName) == "" {
		return Result{}, fmt.Errorf("%w: first name is required", ErrValidation)
	}

	now := s.now()

	// Allocate a serNo and insert. The read is racy; the unique index is
	// the arbiter, and a collision means someone else took the number.
	var member models.Member
	inserted := false
	for attempt := 0; attempt < allocAttempts; attempt++ {
		serNo, err := s.Members.NextSerNo(ctx)
		if err != nil {
			return Result{}, err
		}
		member, err = s.Members.Insert(ctx, memberFromForm(sub, serNo, approver, now))
		if err == nil {
			inserted = true
			break
		}
		if !errors.Is(err, memberstore.ErrDuplicateSerNo) {
			return Result{}, err
		}
		s.log().Warn("serNo collision, reallocating",
			zap.Int("ser_no", serNo), zap.Int("attempt", attempt+1))
	}
	if !inserted {
		return Result{}, ErrTransient
	}

	res := Result{Member: member}

	if sub.Form.Email != "" {
		created, hint, err := s.ensureCredential(ctx, member, sub.Form.Email)
		if err != nil {
			s.rollbackMember(ctx, member.SerNo)
			return Result{}, err
		}
		res.CredentialCreated = created
		res.TemporaryPasswordHint = hint
	}

	if err := s.Subs.MarkApproved(ctx, id, approver, comments, member.SerNo, now); err != nil {
		s.rollbackMember(ctx, member.SerNo)
		if res.CredentialCreated {
			if derr := s.Creds.DeleteByMemberSerNo(ctx, member.SerNo); derr != nil {
				s.log().Error("credential rollback failed",
					zap.Int("ser_no", member.SerNo), zap.Error(derr))
			}
		}
		if errors.Is(err, submissionstore.ErrNotPending) {
			return Result{}, ErrAlreadyProcessed
		}
		if errors.Is(err, submissionstore.ErrNotFound) {
			return Result{}, ErrNotFound
		}
		return Result{}, err
	}

	s.log().Info("submission approved",
		zap.String("submission_id", id.Hex()),
		zap.String("kind", string(sub.Kind)),
		zap.Int("ser_no", member.SerNo),
		zap.Bool("credential_created", res.CredentialCreated),
		zap.String("approved_by", approver))
	return res, nil
}

// Reject stamps a pending submission rejected with the reviewer's reason.
func (s *Service) Reject(ctx context.Context, id primitive.ObjectID, approver, reason string) error {
	err := s.Subs.MarkRejected(ctx, id, approver, reason, s.now())
	if err != nil {
		if errors.Is(err, submissionstore.ErrNotFound) {
			return ErrNotFound
		}
		if errors.Is(err, submissionstore.ErrNotPending) {
			return ErrAlreadyProcessed
		}
		return err
	}
	s.log().Info("submission rejected",
		zap.String("submission_id", id.Hex()),
		zap.String("rejected_by", approver))
	return nil
}

// ensureCredential mints a login for the new member unless the email is
// already claimed. An existing credential is not an error; the member is
// simply linked to their prior login by email.
func (s *Service) ensureCredential(ctx context.Context, member models.Member, email string) (bool, string, error) {
	exists, err := s.Creds.ExistsForEmail(ctx, email)
	if err != nil {
		return false, "", err
	}
	if exists {
		return false, "", nil
	}

	temp, err := tempPassword()
	if err != nil {
		return false, "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(temp), s.bcryptCost())
	if err != nil {
		return false, "", err
	}

	_, err = s.Creds.Insert(ctx, models.LoginCredential{
		MemberSerNo:  member.SerNo,
		Username:     email,
		Email:        email,
		PasswordHash: string(hash),
		Role:         "user",
		IsActive:     true,
	})
	if err != nil {
		if errors.Is(err, credentialstore.ErrDuplicate) {
			// Raced with another approval claiming the same email.
			return false, "", nil
		}
		return false, "", err
	}
	return true, maskHint(temp), nil
}

func (s *Service) rollbackMember(ctx context.Context, serNo int) {
	if err := s.Members.DeleteBySerNo(ctx, serNo); err != nil &&
		!errors.Is(err, memberstore.ErrNotFound) {
		s.log().Error("member rollback failed",
			zap.Int("ser_no", serNo), zap.Error(err))
	}
}

func memberFromForm(sub *models.PendingSubmission, serNo int, approver string, now time.Time) models.Member {
	f := sub.Form
	return models.Member{
		SerNo:        serNo,
		FirstName:    f.FirstName,
		MiddleName:   f.MiddleName,
		LastName:     f.LastName,
		Gender:       f.Gender,
		DateOfBirth:  f.DateOfBirth,
		IsAlive:      true,
		Email:        f.Email,
		PhoneNumber:  f.PhoneNumber,
		Occupation:   f.Occupation,
		Education:    f.Education,
		Address:      f.Address,
		VanshNumber:  f.VanshNumber,
		Notes:        f.Notes,
		FatherSerNo:  f.FatherSerNo,
		SpouseSerNo:  f.SpouseSerNo,
		ApprovedBy:   approver,
		ApprovalDate: &now,
		SubmissionID: &sub.ID,
	}
}

const passwordAlphabet = "abcdefghijkmnpqrstuvwxyz23456789"

// tempPassword generates a 10-character temporary password. Ambiguous
// characters (l, o, 0, 1) are excluded.
func tempPassword() (string, error) {
	var b strings.Builder
	for i := 0; i < 10; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(passwordAlphabet))))
		if err != nil {
			return "", err
		}
		b.WriteByte(passwordAlphabet[n.Int64()])
	}
	return b.String(), nil
}

// maskHint keeps the first two characters and stars the rest.
func maskHint(password string) string {
	if len(password) <= 2 {
		return strings.Repeat("*", len(password))
	}
	return password[:2] + strings.Repeat("*", len(password)-2)
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *Service) bcryptCost() int {
	if s.BcryptCost > 0 {
		return s.BcryptCost
	}
	return bcrypt.DefaultCost
}

func (s *Service) log() *zap.Logger {
	if s.Log != nil {
		return s.Log
	}
	return zap.NewNop()
}
