package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nattapongs/fuelpos-backend/internal/modules/catalog"
	"github.com/nattapongs/fuelpos-backend/internal/modules/ledger"
	"github.com/nattapongs/fuelpos-backend/internal/modules/member"
	"github.com/nattapongs/fuelpos-backend/internal/modules/nozzle"
	"github.com/nattapongs/fuelpos-backend/internal/modules/promotion"
)

// Collaborator contracts the engine consumes. The concrete modules satisfy
// them; tests substitute fakes.

// Catalog looks up sellable products.
type Catalog interface {
	GetByID(ctx context.Context, id string) (*catalog.Product, error)
}

// Members looks up loyalty members.
type Members interface {
	Find(ctx context.Context, query string) (*member.Member, error)
}

// Promotions supplies the currently-active promotion set.
type Promotions interface {
	ListActive(ctx context.Context, now time.Time) ([]*promotion.Promotion, error)
}

// Locks is the nozzle lock coordinator surface the engine drives.
type Locks interface {
	AcquireForNewSession(ctx context.Context, id uuid.UUID) (*nozzle.Nozzle, error)
	Release(ctx context.Context, id uuid.UUID) error
}

// Service drives sale sessions through their workflow.
type Service interface {
	Start(ctx context.Context, req StartRequest) (*SessionResponse, error)
	Get(ctx context.Context, id string) (*SessionResponse, error)
	ListByNozzle(ctx context.Context, nozzleID string) ([]*SessionResponse, error)

	SetFuelAmount(ctx context.Context, id string, req FuelRequest) (*SessionResponse, error)
	ConfirmReceived(ctx context.Context, id string, req ReceivedRequest) (*SessionResponse, error)
	DeclareMember(ctx context.Context, id string, req MemberDeclareRequest) (*SessionResponse, error)
	LookupMember(ctx context.Context, id string, req MemberLookupRequest) (*SessionResponse, error)
	ChoosePayment(ctx context.Context, id string, req PaymentRequest) (*SessionResponse, error)
	AddItem(ctx context.Context, id string, req AddItemRequest) (*SessionResponse, error)
	RemoveItem(ctx context.Context, id string, index int) (*SessionResponse, error)
	EditStep(ctx context.Context, id string, req EditRequest) (*SessionResponse, error)

	Finalize(ctx context.Context, id string) (*FinalizeResponse, error)
	Cancel(ctx context.Context, id string) (*SessionResponse, error)
}

type engine struct {
	dir     Repository
	locks   Locks
	catalog Catalog
	members Members
	promos  Promotions
	sink    ledger.Recorder
}

// NewEngine creates the session workflow engine.
func NewEngine(dir Repository, locks Locks, cat Catalog, members Members, promos Promotions, sink ledger.Recorder) Service {
	return &engine{dir: dir, locks: locks, catalog: cat, members: members, promos: promos, sink: sink}
}

// ── lifecycle ─────────────────────────────────────────────────────────────────

func (e *engine) Start(ctx context.Context, req StartRequest) (*SessionResponse, error) {
	s := &SaleSession{ID: uuid.New(), Cart: []CartItem{}}

	if req.NozzleID == "" {
		// General sale: no pump, workflow begins at the summary.
		s.State = StateSummary
		return e.park(ctx, s)
	}

	nozzleID, err := uuid.Parse(req.NozzleID)
	if err != nil {
		return nil, fmt.Errorf("invalid nozzle_id: %w", err)
	}

	n, err := e.locks.AcquireForNewSession(ctx, nozzleID)
	if err != nil {
		return nil, err
	}

	p, err := e.catalog.GetByID(ctx, n.ProductID.String())
	if err != nil {
		return nil, &CollaboratorFailure{Op: "catalog lookup", Err: err}
	}

	s.NozzleID = &nozzleID
	productID := n.ProductID
	s.ProductID = &productID
	s.FuelPrice = p.Price
	s.State = StateFuel

	resp, err := e.park(ctx, s)
	if err != nil {
		// Undo the acquire; Release no-ops if other sessions keep the
		// nozzle busy.
		if relErr := e.locks.Release(ctx, nozzleID); relErr != nil {
			log.Printf("release after failed create on nozzle %s: %v", nozzleID, relErr)
		}
		return nil, err
	}
	return resp, nil
}

// park computes the new session's totals and writes it to the directory.
func (e *engine) park(ctx context.Context, s *SaleSession) (*SessionResponse, error) {
	t, err := e.totals(ctx, s)
	if err != nil {
		return nil, err
	}
	if err := e.dir.Create(ctx, s); err != nil {
		return nil, err
	}
	return &SessionResponse{Session: s, Totals: t}, nil
}

func (e *engine) Get(ctx context.Context, id string) (*SessionResponse, error) {
	s, err := e.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return e.respond(ctx, s)
}

func (e *engine) ListByNozzle(ctx context.Context, nozzleID string) ([]*SessionResponse, error) {
	nid, err := uuid.Parse(nozzleID)
	if err != nil {
		return nil, fmt.Errorf("invalid nozzle_id: %w", err)
	}
	sessions, err := e.dir.ListByNozzle(ctx, nid)
	if err != nil {
		return nil, err
	}
	out := make([]*SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		resp, err := e.respond(ctx, s)
		if err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	return out, nil
}

// ── workflow steps ────────────────────────────────────────────────────────────

func (e *engine) SetFuelAmount(ctx context.Context, id string, req FuelRequest) (*SessionResponse, error) {
	s, err := e.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.State != StateFuel {
		return nil, wrongStep(s, StateFuel)
	}
	if req.Amount <= 0 {
		return nil, &GuardViolation{State: s.State, Reason: "fuel amount must be greater than zero"}
	}

	s.FuelAmount = req.Amount
	if s.ReceivedAmount == 0 {
		// Convenience default: most customers pay the pump amount exactly.
		s.ReceivedAmount = req.Amount
	}
	s.State = StateReceived
	return e.save(ctx, s)
}

func (e *engine) ConfirmReceived(ctx context.Context, id string, req ReceivedRequest) (*SessionResponse, error) {
	s, err := e.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.State != StateReceived {
		return nil, wrongStep(s, StateReceived)
	}

	t, err := e.totals(ctx, s)
	if err != nil {
		return nil, err
	}
	if req.Amount < t.NetTotal {
		return nil, &GuardViolation{State: s.State,
			Reason: fmt.Sprintf("insufficient received amount: %.2f tendered, %.2f due", req.Amount, t.NetTotal)}
	}

	s.ReceivedAmount = req.Amount
	s.State = StateMemberCheck
	return e.save(ctx, s)
}

func (e *engine) DeclareMember(ctx context.Context, id string, req MemberDeclareRequest) (*SessionResponse, error) {
	s, err := e.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.State != StateMemberCheck {
		return nil, wrongStep(s, StateMemberCheck)
	}

	if req.IsMember {
		s.State = StateMemberInput
	} else {
		s.MemberID = nil
		s.State = StatePaymentMethod
	}
	return e.save(ctx, s)
}

func (e *engine) LookupMember(ctx context.Context, id string, req MemberLookupRequest) (*SessionResponse, error) {
	s, err := e.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.State != StateMemberInput {
		return nil, wrongStep(s, StateMemberInput)
	}
	if req.Query == "" {
		return nil, &GuardViolation{State: s.State, Reason: "member query must not be empty"}
	}

	m, err := e.members.Find(ctx, req.Query)
	if errors.Is(err, member.ErrNotFound) {
		// Failed lookup: stay at member input, member reference unset.
		return nil, &GuardViolation{State: s.State, Reason: "no member matches " + req.Query}
	}
	if err != nil {
		return nil, &CollaboratorFailure{Op: "member lookup", Err: err}
	}

	memberID := m.ID
	s.MemberID = &memberID
	s.State = StatePaymentMethod
	return e.save(ctx, s)
}

func (e *engine) ChoosePayment(ctx context.Context, id string, req PaymentRequest) (*SessionResponse, error) {
	s, err := e.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.State != StatePaymentMethod {
		return nil, wrongStep(s, StatePaymentMethod)
	}

	method := PaymentMethod(strings.ToUpper(req.Method))
	switch method {
	case PaymentCash, PaymentTransfer, PaymentCredit:
	default:
		return nil, &GuardViolation{State: s.State,
			Reason: fmt.Sprintf("invalid payment method %q (allowed: CASH, TRANSFER, CREDIT)", req.Method)}
	}

	s.PaymentMethod = method
	s.State = StateSummary
	return e.save(ctx, s)
}

func (e *engine) AddItem(ctx context.Context, id string, req AddItemRequest) (*SessionResponse, error) {
	s, err := e.load(ctx, id)
	if err != nil {
		return nil, err
	}

	p, err := e.catalog.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, &CollaboratorFailure{Op: "catalog lookup", Err: err}
	}
	if p.Category != catalog.CategoryGoods {
		return nil, &GuardViolation{State: s.State, Reason: "only shop goods can be added to the basket"}
	}
	if !p.IsActive || p.Price <= 0 {
		return nil, &GuardViolation{State: s.State, Reason: "product is not sellable"}
	}

	s.Cart = append(s.Cart, CartItem{ProductID: p.ID, Name: p.Name, Price: p.Price})
	return e.save(ctx, s)
}

func (e *engine) RemoveItem(ctx context.Context, id string, index int) (*SessionResponse, error) {
	s, err := e.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(s.Cart) {
		return nil, &GuardViolation{State: s.State, Reason: "no basket item at that position"}
	}

	s.Cart = append(s.Cart[:index], s.Cart[index+1:]...)
	return e.save(ctx, s)
}

func (e *engine) EditStep(ctx context.Context, id string, req EditRequest) (*SessionResponse, error) {
	s, err := e.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.State != StateSummary {
		return nil, wrongStep(s, StateSummary)
	}

	target := WorkflowState(strings.ToUpper(req.Target))
	switch target {
	case StateFuel:
		if !s.IsFuelSale() {
			return nil, &GuardViolation{State: s.State, Reason: "a general sale has no fuel step"}
		}
	case StateReceived, StateMemberCheck:
	default:
		return nil, &GuardViolation{State: s.State,
			Reason: fmt.Sprintf("cannot edit step %q (allowed: FUEL, RECEIVED, MEMBER_CHECK)", req.Target)}
	}

	s.State = target
	return e.save(ctx, s)
}

// ── settlement ────────────────────────────────────────────────────────────────

func (e *engine) Finalize(ctx context.Context, id string) (*FinalizeResponse, error) {
	s, err := e.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.State != StateSummary {
		return nil, wrongStep(s, StateSummary)
	}
	if s.PaymentMethod == "" {
		return nil, &GuardViolation{State: s.State, Reason: "payment method not chosen"}
	}

	t, err := e.totals(ctx, s)
	if err != nil {
		return nil, err
	}
	if s.ReceivedAmount < t.NetTotal {
		return nil, &GuardViolation{State: s.State,
			Reason: fmt.Sprintf("insufficient received amount: %.2f tendered, %.2f due", s.ReceivedAmount, t.NetTotal)}
	}

	items, err := json.Marshal(s.Cart)
	if err != nil {
		return nil, err
	}
	rec := &ledger.SettlementRecord{
		SessionID:      s.ID,
		NozzleID:       s.NozzleID,
		ProductID:      s.ProductID,
		Liters:         t.Liters,
		GrossAmount:    t.GrossTotal,
		Discount:       t.Discount,
		PromotionID:    t.PromotionID,
		NetAmount:      t.NetTotal,
		PaymentMethod:  string(s.PaymentMethod),
		MemberID:       s.MemberID,
		ReceivedAmount: s.ReceivedAmount,
		ChangeAmount:   t.Change,
		Items:          items,
	}

	// Ledger first. If the write fails the session stays parked and the
	// nozzle stays busy, so the cashier can retry.
	txID, err := e.sink.Record(ctx, rec)
	if err != nil {
		return nil, &CollaboratorFailure{Op: "ledger write", Err: err}
	}

	if err := e.dir.Remove(ctx, s.ID); err != nil {
		return nil, err
	}
	e.release(ctx, s)

	finalizedTotal.Inc()
	s.State = StateFinalized
	return &FinalizeResponse{TransactionID: txID, Session: s, Totals: t}, nil
}

func (e *engine) Cancel(ctx context.Context, id string) (*SessionResponse, error) {
	s, err := e.load(ctx, id)
	if err != nil {
		return nil, err
	}

	// Cancelling must not depend on collaborators being up; totals in the
	// response are best effort.
	t, err := e.totals(ctx, s)
	if err != nil {
		log.Printf("totals for cancelled session %s: %v", s.ID, err)
		t = Totals{}
	}

	if err := e.dir.Remove(ctx, s.ID); err != nil {
		return nil, err
	}
	e.release(ctx, s)

	cancelledTotal.Inc()
	s.State = StateCancelled
	return &SessionResponse{Session: s, Totals: t}, nil
}

func (e *engine) release(ctx context.Context, s *SaleSession) {
	if s.NozzleID == nil {
		return
	}
	if err := e.locks.Release(ctx, *s.NozzleID); err != nil {
		// The session is already settled; the next release on this nozzle
		// clears the stale busy flag.
		log.Printf("release nozzle %s: %v", s.NozzleID, err)
	}
}

// ── derived values ────────────────────────────────────────────────────────────

// totals recomputes every monetary figure from the session's inputs and the
// active promotion set. Never cached: a promotion edit changes the next
// recomputation.
func (e *engine) totals(ctx context.Context, s *SaleSession) (Totals, error) {
	t := Totals{}
	for _, item := range s.Cart {
		t.GoodsTotal += item.Price
	}
	t.GrossTotal = s.FuelAmount + t.GoodsTotal
	if s.IsFuelSale() && s.FuelPrice > 0 {
		t.Liters = s.FuelAmount / s.FuelPrice
	}

	promos, err := e.promos.ListActive(ctx, time.Now())
	if err != nil {
		return t, &CollaboratorFailure{Op: "promotion lookup", Err: err}
	}
	t.Discount, t.PromotionID = promotion.SelectDiscount(t.GrossTotal, t.Liters, s.ProductID, promos)
	t.NetTotal = t.GrossTotal - t.Discount
	t.Change = s.ReceivedAmount - t.NetTotal
	return t, nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

func (e *engine) load(ctx context.Context, id string) (*SaleSession, error) {
	sid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid session id: %w", err)
	}
	return e.dir.Get(ctx, sid)
}

// save recomputes totals before persisting, so a collaborator outage rejects
// the whole step instead of leaving a half-applied session behind.
func (e *engine) save(ctx context.Context, s *SaleSession) (*SessionResponse, error) {
	t, err := e.totals(ctx, s)
	if err != nil {
		return nil, err
	}
	if err := e.dir.Update(ctx, s); err != nil {
		return nil, err
	}
	return &SessionResponse{Session: s, Totals: t}, nil
}

func (e *engine) respond(ctx context.Context, s *SaleSession) (*SessionResponse, error) {
	t, err := e.totals(ctx, s)
	if err != nil {
		return nil, err
	}
	return &SessionResponse{Session: s, Totals: t}, nil
}

func wrongStep(s *SaleSession, want WorkflowState) *GuardViolation {
	return &GuardViolation{State: s.State,
		Reason: fmt.Sprintf("session is at the %s step, not %s", s.State, want)}
}
