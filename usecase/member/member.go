package member

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/homeharmony/backend/domain"
	"github.com/homeharmony/backend/pkg/idgen"
	appLogger "github.com/homeharmony/backend/pkg/logger"
	"github.com/homeharmony/backend/repository"
	"github.com/homeharmony/backend/usecase"
)

// DeletePolicy decides what happens to open tasks of a removed member.
type DeletePolicy string

const (
	// PolicyBlock refuses the deletion while the member has open tasks.
	PolicyBlock DeletePolicy = "block"
	// PolicyReassign hands each open task to the least-loaded remaining member.
	PolicyReassign DeletePolicy = "reassign"
	// PolicyLeave keeps the tasks pointing at the removed member.
	PolicyLeave DeletePolicy = "leave"
)

// ParseDeletePolicy accepts the configuration spelling of a policy.
func ParseDeletePolicy(raw string) (DeletePolicy, error) {
	switch p := DeletePolicy(strings.ToLower(strings.TrimSpace(raw))); p {
	case PolicyBlock, PolicyReassign, PolicyLeave:
		return p, nil
	case "":
		return PolicyBlock, nil
	default:
		return "", fmt.Errorf("unknown member delete policy %q", raw)
	}
}

type UseCase struct {
	members     repository.MemberRepository
	tasks       repository.TaskRepository
	credentials usecase.Credentials
	buffer      usecase.OperationBuffer
	ids         idgen.Generator
	policy      DeletePolicy
	logger      *zap.Logger
}

type Deps struct {
	Members     repository.MemberRepository
	Tasks       repository.TaskRepository
	Credentials usecase.Credentials
	Buffer      usecase.OperationBuffer
	IDs         idgen.Generator
	Policy      DeletePolicy
	Logger      *zap.Logger
}

func New(deps Deps) *UseCase {
	uc := &UseCase{
		members:     deps.Members,
		tasks:       deps.Tasks,
		credentials: deps.Credentials,
		buffer:      deps.Buffer,
		ids:         deps.IDs,
		policy:      deps.Policy,
		logger:      deps.Logger,
	}
	if uc.logger == nil {
		uc.logger = zap.NewNop()
	}
	if uc.ids == nil {
		uc.ids = idgen.UUID{}
	}
	if uc.policy == "" {
		uc.policy = PolicyBlock
	}
	return uc
}

func (uc *UseCase) ListMembers(ctx context.Context) ([]domain.Member, error) {
	return uc.members.List(ctx)
}

func (uc *UseCase) GetMember(ctx context.Context, id string) (*domain.Member, error) {
	return uc.members.GetByID(ctx, id)
}

// AddMember registers a new household member. The first member of an empty
// household becomes its admin; later members start without the flag.
func (uc *UseCase) AddMember(ctx context.Context, member *domain.Member, password string) (*domain.Member, error) {
	if member == nil {
		return nil, domain.ErrInvalidPayload
	}
	member.Normalize()
	if err := member.Validate(); err != nil {
		return nil, err
	}

	if _, err := uc.members.GetByName(ctx, member.Name); err == nil {
		return nil, domain.ErrMemberExists
	} else if !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		return nil, err
	}

	existing, err := uc.members.List(ctx)
	if err != nil {
		return nil, err
	}
	member.IsAdmin = len(existing) == 0

	if err := uc.setPassword(member, password); err != nil {
		return nil, err
	}
	if member.ID == "" {
		member.ID = uc.ids.NewID()
	}

	created, err := uc.members.Create(ctx, member)
	if err != nil {
		if uc.shouldBuffer(ctx, usecase.OperationCreate, member, err) {
			return member, nil
		}
		return nil, err
	}
	appLogger.WithRequestID(ctx, uc.logger).Info("member added",
		zap.String("member_id", created.ID),
		zap.Bool("admin", created.IsAdmin))
	return created, nil
}

// Profile is the editable part of a member.
type Profile struct {
	Name     *string
	Avatar   *string
	Color    *string
	Password *string
}

// UpdateMember changes a member's profile. Members edit themselves; admins
// edit anyone.
func (uc *UseCase) UpdateMember(ctx context.Context, actorID, targetID string, p Profile) (*domain.Member, error) {
	actor, err := uc.members.GetByID(ctx, actorID)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	if actorID != targetID && !actor.IsAdmin {
		return nil, domain.ErrAdminRequired
	}
	target, err := uc.members.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if !strings.EqualFold(name, target.Name) {
			if _, err := uc.members.GetByName(ctx, name); err == nil {
				return nil, domain.ErrMemberExists
			}
		}
		target.Name = name
	}
	if p.Avatar != nil {
		target.Avatar = *p.Avatar
	}
	if p.Color != nil {
		target.Color = *p.Color
	}
	target.Normalize()
	if err := target.Validate(); err != nil {
		return nil, err
	}
	if p.Password != nil {
		if err := uc.setPassword(target, *p.Password); err != nil {
			return nil, err
		}
	}
	return uc.save(ctx, target)
}

// ToggleAdmin flips targetID's admin flag on behalf of an admin actor. The
// household never ends up without an admin.
func (uc *UseCase) ToggleAdmin(ctx context.Context, actorID, targetID string) (*domain.Member, error) {
	members, err := uc.members.List(ctx)
	if err != nil {
		return nil, err
	}
	if err := requireAdmin(members, actorID); err != nil {
		return nil, err
	}
	target, ok := domain.FindMember(members, targetID)
	if !ok {
		return nil, domain.ErrMemberNotFound
	}
	if target.IsAdmin && domain.AdminCount(members) == 1 {
		return nil, domain.ErrLastAdmin
	}

	target.IsAdmin = !target.IsAdmin
	updated, err := uc.save(ctx, &target)
	if err != nil {
		return nil, err
	}
	appLogger.WithRequestID(ctx, uc.logger).Info("admin flag toggled",
		zap.String("target_id", targetID),
		zap.Bool("admin", updated.IsAdmin))
	return updated, nil
}

// DeleteMember removes targetID. Admins only, never oneself, never the sole
// member and never the last admin. Open tasks are handled per the configured
// DeletePolicy.
func (uc *UseCase) DeleteMember(ctx context.Context, actorID, targetID string) error {
	members, err := uc.members.List(ctx)
	if err != nil {
		return err
	}
	if err := requireAdmin(members, actorID); err != nil {
		return err
	}
	if actorID == targetID {
		return domain.ErrSelfDeletion
	}
	target, ok := domain.FindMember(members, targetID)
	if !ok {
		return domain.ErrMemberNotFound
	}
	if len(members) == 1 {
		return domain.ErrSoleMember
	}
	if target.IsAdmin && domain.AdminCount(members) == 1 {
		return domain.ErrLastAdmin
	}

	if err := uc.applyPolicy(ctx, members, targetID); err != nil {
		return err
	}

	if err := uc.members.Delete(ctx, targetID); err != nil {
		if uc.shouldBuffer(ctx, usecase.OperationDelete, &domain.Member{ID: targetID}, err) {
			return nil
		}
		return err
	}
	appLogger.WithRequestID(ctx, uc.logger).Info("member removed",
		zap.String("member_id", targetID),
		zap.String("policy", string(uc.policy)))
	return nil
}

// EnsureAdmin seeds an admin when the household is empty so the store never
// starts without members.
func (uc *UseCase) EnsureAdmin(ctx context.Context, name, password string) (*domain.Member, error) {
	members, err := uc.members.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(members) > 0 {
		return nil, nil
	}
	return uc.AddMember(ctx, &domain.Member{Name: name}, password)
}

func (uc *UseCase) applyPolicy(ctx context.Context, members []domain.Member, targetID string) error {
	if uc.policy == PolicyLeave || uc.tasks == nil {
		return nil
	}

	open := false
	tasks, err := uc.tasks.List(ctx, repository.TaskFilter{Completed: &open})
	if err != nil {
		return err
	}
	var orphaned []int
	for i := range tasks {
		if tasks[i].AssignedTo == targetID {
			orphaned = append(orphaned, i)
		}
	}
	if len(orphaned) == 0 {
		return nil
	}
	if uc.policy == PolicyBlock {
		return domain.ErrMemberHasTasks
	}

	remaining := make([]domain.Member, 0, len(members)-1)
	for _, m := range members {
		if m.ID != targetID {
			remaining = append(remaining, m)
		}
	}
	for _, idx := range orphaned {
		assignee, err := domain.LeastLoadedMember(remaining, tasks)
		if err != nil {
			return err
		}
		tasks[idx].AssignedTo = assignee
		if err := uc.tasks.Update(ctx, &tasks[idx]); err != nil {
			return fmt.Errorf("reassign task %s: %w", tasks[idx].ID, err)
		}
	}
	return nil
}

func (uc *UseCase) setPassword(member *domain.Member, password string) error {
	if password == "" {
		return nil
	}
	if uc.credentials == nil {
		return domain.NewError(domain.ErrCodeInvalidState, "credentials are not configured")
	}
	hash, err := uc.credentials.Hash(password)
	if err != nil {
		return err
	}
	member.PasswordHash = hash
	return nil
}

func (uc *UseCase) save(ctx context.Context, member *domain.Member) (*domain.Member, error) {
	if err := uc.members.Update(ctx, member); err != nil {
		if uc.shouldBuffer(ctx, usecase.OperationUpdate, member, err) {
			return member, nil
		}
		return nil, err
	}
	return member, nil
}

func (uc *UseCase) shouldBuffer(ctx context.Context, operation string, member *domain.Member, cause error) bool {
	if uc.buffer == nil || !usecase.Bufferable(cause) {
		return false
	}
	if err := uc.buffer.BufferMember(ctx, operation, member); err != nil {
		uc.logger.Error("failed to buffer member operation", zap.String("operation", operation), zap.Error(err))
		return false
	}
	uc.logger.Warn("member operation buffered", zap.String("operation", operation), zap.Error(cause))
	return true
}

func requireAdmin(members []domain.Member, actorID string) error {
	actor, ok := domain.FindMember(members, actorID)
	if !ok {
		return domain.ErrUnauthorized
	}
	if !actor.IsAdmin {
		return domain.ErrAdminRequired
	}
	return nil
}
