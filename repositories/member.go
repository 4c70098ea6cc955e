package repositories

import (
	"chat-store/domain"
	"chat-store/observability"
	"chat-store/validation"
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
)

type IMemberRepository interface {
	FetchMember(ctx context.Context, id domain.MemberCompositeKey) (domain.Member, error)
	FetchAllMembers(ctx context.Context, serverID string) ([]domain.Member, error)
	InsertMember(ctx context.Context, member domain.Member) error
	UpdateMember(ctx context.Context, id domain.MemberCompositeKey, partial domain.PartialMember, remove []domain.FieldsMember) error
	DeleteMember(ctx context.Context, id domain.MemberCompositeKey) error
}

type MemberRepository struct {
	db      *badger.DB
	log     *slog.Logger
	metrics *observability.RepositoryMetrics
}

func NewMemberRepository(db *badger.DB, log *slog.Logger, metrics *observability.RepositoryMetrics) *MemberRepository {
	return &MemberRepository{db: db, log: log, metrics: metrics}
}

func (r *MemberRepository) FetchMember(ctx context.Context, id domain.MemberCompositeKey) (member domain.Member, err error) {
	defer r.metrics.Observe(familyMember, "fetch", time.Now(), &err)
	if err = ctx.Err(); err != nil {
		return domain.Member{}, err
	}
	member, err = fetchRecord[domain.Member](r.db, memberKey(id.Server, id.User))
	return member, storeErr(err)
}

// FetchAllMembers returns the members of a server ordered by user id.
func (r *MemberRepository) FetchAllMembers(ctx context.Context, serverID string) (members []domain.Member, err error) {
	defer r.metrics.Observe(familyMember, "fetch_all", time.Now(), &err)
	if err = ctx.Err(); err != nil {
		return nil, err
	}
	err = r.db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, memberServerPrefix(serverID), true, func(_, value []byte) error {
			var member domain.Member
			if err := json.Unmarshal(value, &member); err != nil {
				return err
			}
			members = append(members, member)
			return nil
		})
	})
	return members, storeErr(err)
}

func (r *MemberRepository) InsertMember(ctx context.Context, member domain.Member) (err error) {
	defer r.metrics.Observe(familyMember, "insert", time.Now(), &err)
	if err = ctx.Err(); err != nil {
		return err
	}
	member.Roles = domain.NewSet(member.Roles...)
	if err = storeErr(insertRecord(r.db, memberKey(member.ID.Server, member.ID.User), member)); err != nil {
		return err
	}
	r.log.Debug("Member inserted", "family", familyMember, "server", member.ID.Server, "user", member.ID.User)
	return nil
}

// UpdateMember refuses a patch that leaves the member invalid, such as an overlong nickname.
func (r *MemberRepository) UpdateMember(ctx context.Context, id domain.MemberCompositeKey, partial domain.PartialMember, remove []domain.FieldsMember) (err error) {
	defer r.metrics.Observe(familyMember, "update", time.Now(), &err)
	if err = ctx.Err(); err != nil {
		return err
	}
	err = updateRecord(r.db, memberKey(id.Server, id.User), func(member *domain.Member) error {
		if err := domain.ApplyUpdate(member, partial, remove); err != nil {
			return err
		}
		return validation.ValidateMember(*member)
	})
	if err = storeErr(err); err != nil {
		return err
	}
	r.log.Debug("Member updated", "family", familyMember, "server", id.Server, "user", id.User)
	return nil
}

func (r *MemberRepository) DeleteMember(ctx context.Context, id domain.MemberCompositeKey) (err error) {
	defer r.metrics.Observe(familyMember, "delete", time.Now(), &err)
	if err = ctx.Err(); err != nil {
		return err
	}
	if err = storeErr(deleteRecord(r.db, memberKey(id.Server, id.User))); err != nil {
		return err
	}
	r.log.Debug("Member deleted", "family", familyMember, "server", id.Server, "user", id.User)
	return nil
}
