package order

import (
	"context"
	"time"

	"townbasket-be/internal/apperr"
	"townbasket-be/internal/logger"
	"townbasket-be/internal/settings"
	"townbasket-be/internal/user"
	"townbasket-be/internal/utils"

	"go.uber.org/zap"
)

// Night orders are blocked in [22:00, 06:00) town time unless settings
// allow them.
const (
	nightStartHour = 22
	nightEndHour   = 6
)

type Service interface {
	PlaceOrder(ctx context.Context, actor Actor, in PlaceOrderInput) (*Order, error)
	Get(ctx context.Context, actor Actor, orderID int64) (*Order, error)

	UpdateStatus(ctx context.Context, actor Actor, orderID int64, to Status, note string) (*Order, error)

	// AssignRider is the seller-side assignment. It may replace a previous
	// claim as long as the order is preparing or ready.
	AssignRider(ctx context.Context, actor Actor, orderID int64, riderUID string) (*Order, error)

	// AcceptDelivery is the rider-side claim on an unassigned order. At most
	// one concurrent caller wins; the rest get an assignment conflict.
	AcceptDelivery(ctx context.Context, actor Actor, orderID int64) (*Order, error)

	ListForSeller(ctx context.Context, actor Actor, status *Status) ([]*Order, error)
	ListForCustomer(ctx context.Context, actor Actor, status *Status) ([]*Order, error)
	ListForDelivery(ctx context.Context, actor Actor, scope string) ([]*Order, error)
	ListAll(ctx context.Context, f ListFilter) ([]*Order, error)

	DeliveryStats(ctx context.Context, actor Actor) (*DeliveryStats, error)
}

type service struct {
	repo     Repository
	settings settings.Service
	loc      *time.Location
	clock    func() time.Time
}

func NewService(repo Repository, st settings.Service, loc *time.Location) Service {
	return &service{
		repo:     repo,
		settings: st,
		loc:      loc,
		clock:    time.Now,
	}
}

func (s *service) PlaceOrder(ctx context.Context, actor Actor, in PlaceOrderInput) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "PlaceOrder"),
		zap.Int64("shop_id", in.ShopID),
	)

	if err := validatePlacement(in); err != nil {
		return nil, err
	}

	shop, err := s.repo.GetShopForOrder(ctx, in.ShopID)
	if err == ErrShopNotFound {
		return nil, apperr.E(apperr.NotFound, "shop not found")
	}
	if err != nil {
		log.Error("shop lookup failed", zap.Error(err))
		return nil, err
	}
	if shop.Status != "approved" || !shop.IsActive || !shop.IsOpen {
		return nil, apperr.E(apperr.ShopClosed, "shop is not accepting orders")
	}

	st, err := s.settings.Get(ctx)
	if err != nil {
		log.Error("settings read failed", zap.Error(err))
		return nil, err
	}
	if !st.IsOpenForDelivery {
		return nil, apperr.E(apperr.SettingsClosed, "town delivery is currently paused")
	}
	now := s.clock().In(s.loc)
	if inNightWindow(now) && !st.NightOrdersEnabled {
		return nil, apperr.E(apperr.SettingsClosed, "night orders are disabled")
	}

	method := in.PaymentMethod
	if method == "" {
		method = PaymentMethodCOD
	}
	if method != PaymentMethodCOD {
		return nil, apperr.Ef(apperr.Validation, "unsupported payment method %q", method)
	}
	if !st.CODEnabled {
		return nil, apperr.E(apperr.SettingsClosed, "cash on delivery is currently disabled")
	}

	var (
		items    []OrderItem
		subtotal int64
	)
	for _, line := range in.Items {
		if line.Quantity <= 0 {
			return nil, apperr.Ef(apperr.Validation, "invalid quantity for product %d", line.ProductID)
		}
		p, err := s.repo.GetProductForOrder(ctx, in.ShopID, line.ProductID)
		if err == ErrProductNotFound {
			return nil, apperr.Ef(apperr.Validation, "product %d is not available from this shop", line.ProductID)
		}
		if err != nil {
			log.Error("product lookup failed", zap.Error(err), zap.Int64("product_id", line.ProductID))
			return nil, err
		}
		if !p.InStock {
			return nil, apperr.Ef(apperr.Validation, "%s is out of stock", p.Name)
		}
		lineTotal := p.Price * int64(line.Quantity)
		subtotal += lineTotal
		items = append(items, OrderItem{
			ProductID:       p.ID,
			ProductName:     p.Name,
			ProductImageURL: p.ImageURL,
			Quantity:        line.Quantity,
			UnitPrice:       p.Price,
			TotalPrice:      lineTotal,
		})
	}

	o := &Order{
		CustomerUID:     actor.UID,
		CustomerName:    in.CustomerName,
		CustomerPhone:   in.CustomerPhone,
		ShopID:          shop.ID,
		ShopName:        shop.Name,
		ShopOwnerUID:    shop.OwnerUID,
		DeliveryAddress: in.DeliveryAddress,
		DeliveryArea:    in.DeliveryArea,
		DeliveryTown:    in.DeliveryTown,
		Subtotal:        subtotal,
		DeliveryCharge:  st.DefaultDeliveryCharge,
		Total:           subtotal + st.DefaultDeliveryCharge,
		PaymentMethod:   method,
		PaymentStatus:   PaymentStatusPending,
		Status:          StatusPending,
		CustomerNote:    in.CustomerNote,
		Items:           items,
	}

	if err := s.repo.Create(ctx, o); err != nil {
		if err == ErrShopNotFound {
			return nil, apperr.E(apperr.NotFound, "shop not found")
		}
		log.Error("order create failed", zap.Error(err))
		return nil, err
	}

	log.Info("order placed",
		zap.Int64("order_id", o.ID),
		zap.String("order_number", o.OrderNumber),
		zap.String("total", utils.Rupees(o.Total)),
	)
	return o, nil
}

func validatePlacement(in PlaceOrderInput) error {
	if in.ShopID <= 0 {
		return apperr.E(apperr.Validation, "shop_id is required")
	}
	if len(in.Items) == 0 {
		return apperr.E(apperr.Validation, "order must contain at least one item")
	}
	if in.CustomerName == "" || in.CustomerPhone == "" {
		return apperr.E(apperr.Validation, "customer name and phone are required")
	}
	if in.DeliveryAddress == "" {
		return apperr.E(apperr.Validation, "delivery address is required")
	}
	return nil
}

func inNightWindow(t time.Time) bool {
	h := t.Hour()
	return h >= nightStartHour || h < nightEndHour
}

func (s *service) Get(ctx context.Context, actor Actor, orderID int64) (*Order, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err == ErrOrderNotFound {
		return nil, apperr.E(apperr.NotFound, "order not found")
	}
	if err != nil {
		return nil, err
	}
	if !canView(o, actor) {
		return nil, apperr.E(apperr.Forbidden, "not your order")
	}
	return o, nil
}

func canView(o *Order, a Actor) bool {
	switch {
	case a.Role == user.RoleAdmin:
		return true
	case o.CustomerUID == a.UID:
		return true
	case o.ShopOwnerUID == a.UID:
		return true
	case o.AssignedTo(a.UID):
		return true
	}
	return false
}

func (s *service) UpdateStatus(ctx context.Context, actor Actor, orderID int64, to Status, note string) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateStatus"),
		zap.Int64("order_id", orderID),
		zap.String("to", string(to)),
	)

	if !ValidStatus(to) {
		return nil, apperr.Ef(apperr.Validation, "unknown status %q", to)
	}

	o, err := s.repo.Transition(ctx, orderID, func(o *Order) error {
		return Apply(o, to, actor, note, s.clock().In(s.loc))
	})
	if err == ErrOrderNotFound {
		return nil, apperr.E(apperr.NotFound, "order not found")
	}
	if err != nil {
		if apperr.KindOf(err) == apperr.Upstream {
			log.Error("transition failed", zap.Error(err))
		}
		return nil, err
	}

	log.Info("status updated", zap.String("status", string(o.Status)))
	return o, nil
}

func (s *service) AssignRider(ctx context.Context, actor Actor, orderID int64, riderUID string) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "AssignRider"),
		zap.Int64("order_id", orderID),
		zap.String("rider_uid", riderUID),
	)

	if riderUID == "" {
		return nil, apperr.E(apperr.Validation, "delivery_uid is required")
	}

	o, err := s.repo.GetByID(ctx, orderID)
	if err == ErrOrderNotFound {
		return nil, apperr.E(apperr.NotFound, "order not found")
	}
	if err != nil {
		return nil, err
	}
	if actor.Role != user.RoleAdmin && o.ShopOwnerUID != actor.UID {
		return nil, apperr.E(apperr.Forbidden, "only the shop owner can assign a delivery partner")
	}
	if err := assignable(o); err != nil {
		return nil, err
	}
	if o.AssignedTo(riderUID) {
		return o, nil
	}

	rider, err := s.checkRider(ctx, riderUID)
	if err != nil {
		return nil, err
	}

	ok, err := s.repo.AssignRider(ctx, orderID, rider.UID, rider.Name, true)
	if err != nil {
		log.Error("assignment write failed", zap.Error(err))
		return nil, err
	}
	if !ok {
		// The status gate moved underneath us; reclassify from a fresh read.
		fresh, err := s.repo.GetByID(ctx, orderID)
		if err != nil {
			return nil, err
		}
		return nil, assignable(fresh)
	}

	log.Info("delivery partner assigned")
	return s.repo.GetByID(ctx, orderID)
}

func (s *service) AcceptDelivery(ctx context.Context, actor Actor, orderID int64) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "AcceptDelivery"),
		zap.Int64("order_id", orderID),
		zap.String("rider_uid", actor.UID),
	)

	rider, err := s.checkRider(ctx, actor.UID)
	if err != nil {
		return nil, err
	}

	o, err := s.repo.GetByID(ctx, orderID)
	if err == ErrOrderNotFound {
		return nil, apperr.E(apperr.NotFound, "order not found")
	}
	if err != nil {
		return nil, err
	}
	if o.AssignedTo(rider.UID) {
		return o, nil
	}
	if err := assignable(o); err != nil {
		return nil, err
	}
	if o.Assigned() {
		return nil, apperr.E(apperr.AssignmentConflict, "order already has a delivery partner")
	}

	ok, err := s.repo.AssignRider(ctx, orderID, rider.UID, rider.Name, false)
	if err != nil {
		log.Error("claim write failed", zap.Error(err))
		return nil, err
	}
	if !ok {
		fresh, err := s.repo.GetByID(ctx, orderID)
		if err != nil {
			return nil, err
		}
		if fresh.AssignedTo(rider.UID) {
			return fresh, nil
		}
		if err := assignable(fresh); err != nil {
			return nil, err
		}
		// Lost the race to another rider.
		return nil, apperr.E(apperr.AssignmentConflict, "order already has a delivery partner")
	}

	log.Info("delivery claimed")
	return s.repo.GetByID(ctx, orderID)
}

// assignable reports whether the order is in the assignment window.
func assignable(o *Order) error {
	switch o.Status {
	case StatusPreparing, StatusReady:
		return nil
	case StatusPending, StatusConfirmed:
		return apperr.E(apperr.InvalidTransition, "order is not ready for a delivery partner yet")
	default:
		return apperr.E(apperr.AssignmentLocked, "assignment can no longer change")
	}
}

func (s *service) checkRider(ctx context.Context, uid string) (*RiderInfo, error) {
	rider, err := s.repo.GetRider(ctx, uid)
	if err == ErrRiderNotFound {
		return nil, apperr.E(apperr.NotFound, "delivery partner not found")
	}
	if err != nil {
		return nil, err
	}
	if rider.Role != user.RoleDelivery {
		return nil, apperr.E(apperr.Validation, "user is not a delivery partner")
	}
	if !rider.IsActive {
		return nil, apperr.E(apperr.Forbidden, "delivery partner account is deactivated")
	}
	if !rider.IsOnline {
		return nil, apperr.E(apperr.Forbidden, "delivery partner is offline")
	}
	return rider, nil
}

func (s *service) ListForSeller(ctx context.Context, actor Actor, status *Status) ([]*Order, error) {
	shop, err := s.repo.GetShopByOwner(ctx, actor.UID)
	if err == ErrShopNotFound {
		return nil, apperr.E(apperr.NotFound, "you have no shop")
	}
	if err != nil {
		return nil, err
	}
	if status != nil && !ValidStatus(*status) {
		return nil, apperr.Ef(apperr.Validation, "unknown status %q", *status)
	}
	return s.repo.List(ctx, ListFilter{ShopID: &shop.ID, Status: status})
}

func (s *service) ListForCustomer(ctx context.Context, actor Actor, status *Status) ([]*Order, error) {
	if status != nil && !ValidStatus(*status) {
		return nil, apperr.Ef(apperr.Validation, "unknown status %q", *status)
	}
	uid := actor.UID
	return s.repo.List(ctx, ListFilter{CustomerUID: &uid, Status: status})
}

func (s *service) ListForDelivery(ctx context.Context, actor Actor, scope string) ([]*Order, error) {
	uid := actor.UID
	switch scope {
	case "", "available":
		return s.repo.List(ctx, ListFilter{Available: true})
	case "assigned":
		return s.repo.List(ctx, ListFilter{DeliveryUID: &uid, ActiveOnly: true})
	case "completed":
		st := StatusDelivered
		return s.repo.List(ctx, ListFilter{DeliveryUID: &uid, Status: &st})
	default:
		return nil, apperr.Ef(apperr.Validation, "unknown scope %q", scope)
	}
}

func (s *service) ListAll(ctx context.Context, f ListFilter) ([]*Order, error) {
	if f.Status != nil && !ValidStatus(*f.Status) {
		return nil, apperr.Ef(apperr.Validation, "unknown status %q", *f.Status)
	}
	return s.repo.List(ctx, f)
}

func (s *service) DeliveryStats(ctx context.Context, actor Actor) (*DeliveryStats, error) {
	return s.repo.DeliveryStats(ctx, actor.UID)
}
