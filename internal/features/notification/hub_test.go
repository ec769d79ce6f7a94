package notification

import (
	"testing"
	"time"

	common_models "sk-pengajuan/internal/common/models"

	"go.uber.org/zap"
)

func receive(t *testing.T, sub *Subscription) (Notification, bool) {
	t.Helper()
	select {
	case n, ok := <-sub.C():
		return n, ok
	case <-time.After(time.Second):
		return Notification{}, false
	}
}

func TestHubDeliversByAudience(t *testing.T) {
	hub := NewHub(zap.NewNop())
	go hub.Run()
	defer hub.Stop()

	unit := hub.Subscribe(Audience{UnitID: "unit-1"})
	okk := hub.Subscribe(Audience{Role: common_models.RoleOKK})
	defer unit.Close()
	defer okk.Close()

	hub.Publish(Notification{RecipientRole: common_models.RoleOKK, Title: "antrian"})
	hub.Publish(Notification{RecipientUnitID: "unit-1", Title: "disetujui"})

	if n, ok := receive(t, okk); !ok || n.Title != "antrian" {
		t.Errorf("okk subscriber got %+v, %v", n, ok)
	}
	if n, ok := receive(t, unit); !ok || n.Title != "disetujui" {
		t.Errorf("unit subscriber got %+v, %v", n, ok)
	}

	select {
	case n := <-okk.C():
		t.Errorf("okk subscriber received foreign notification %+v", n)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubStopClosesSubscribers(t *testing.T) {
	hub := NewHub(zap.NewNop())
	done := make(chan struct{})
	go func() {
		hub.Run()
		close(done)
	}()

	sub := hub.Subscribe(Audience{UnitID: "unit-1"})
	hub.Stop()
	<-done

	if _, ok := <-sub.C(); ok {
		t.Error("subscription channel should be closed after Stop")
	}
	sub.Close()

	if hub.Subscribe(Audience{UnitID: "unit-1"}) != nil {
		t.Error("Subscribe after Stop should return nil")
	}
	hub.Publish(Notification{RecipientUnitID: "unit-1"})
}

func TestAudienceOf(t *testing.T) {
	t.Parallel()

	owner := AudienceOf(common_models.Actor{ID: "u", Role: common_models.RoleOwner, UnitID: "unit-1"})
	if !owner.Matches(Notification{RecipientUnitID: "unit-1"}) || owner.Matches(Notification{RecipientRole: common_models.RoleOKK}) {
		t.Errorf("owner audience = %+v matched wrongly", owner)
	}

	ketum := AudienceOf(common_models.Actor{ID: "k", Role: common_models.RoleKetum})
	if !ketum.Matches(Notification{RecipientRole: common_models.RoleKetum}) || ketum.Matches(Notification{RecipientRole: common_models.RoleOKK}) {
		t.Errorf("ketum audience = %+v matched wrongly", ketum)
	}
}
