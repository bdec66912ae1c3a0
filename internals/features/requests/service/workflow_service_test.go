package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"masjidfinder_backend/internals/constants"
	"masjidfinder_backend/internals/features/masjids/masjids/cache"
	masjidModel "masjidfinder_backend/internals/features/masjids/masjids/model"
	"masjidfinder_backend/internals/features/requests/dto"
	"masjidfinder_backend/internals/features/requests/model"
	userModel "masjidfinder_backend/internals/features/users/user/model"
	"masjidfinder_backend/internals/helpers/apperror"
	"masjidfinder_backend/internals/helpers/authz"
	"masjidfinder_backend/internals/testutil/memstore"
)

type fixture struct {
	store *memstore.Store
	svc   *WorkflowService
	cache *countingCache

	mainAdmin authz.Actor
	admin     authz.Actor
	user      authz.Actor
	other     authz.Actor
}

// countingCache: cukup menghitung Invalidate
type countingCache struct {
	invalidations atomic.Int32
}

func (c *countingCache) GetList(context.Context) ([]masjidModel.MasjidModel, cache.Stamp, bool) {
	return nil, 0, false
}
func (c *countingCache) SetList(context.Context, cache.Stamp, []masjidModel.MasjidModel) {}
func (c *countingCache) GetOne(context.Context, uuid.UUID) (*masjidModel.MasjidModel, cache.Stamp, bool) {
	return nil, 0, false
}
func (c *countingCache) SetOne(context.Context, cache.Stamp, *masjidModel.MasjidModel) {}
func (c *countingCache) Invalidate(context.Context)                                    { c.invalidations.Add(1) }

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memstore.New()
	repos := store.Repositories()
	c := &countingCache{}

	f := &fixture{store: store, cache: c, svc: NewWorkflowService(store, repos, c)}
	f.mainAdmin = f.addUser(t, "alice", constants.RoleMainAdmin)
	f.admin = f.addUser(t, "dina", constants.RoleAdmin)
	f.user = f.addUser(t, "bob", constants.RoleUser)
	f.other = f.addUser(t, "carol", constants.RoleUser)
	return f
}

func (f *fixture) addUser(t *testing.T, name, role string) authz.Actor {
	t.Helper()
	u := &userModel.UserModel{UserName: name, Email: name + "@x.com", Password: "x"}
	require.NoError(t, f.store.Repositories().Users.Create(context.Background(), u, func(int64) string { return role }))
	return authz.Actor{ID: u.ID, Role: u.Role}
}

func (f *fixture) addMasjid(t *testing.T, name string) masjidModel.MasjidModel {
	t.Helper()
	m := validData(name).ToModel(f.mainAdmin.ID, time.Now())
	require.NoError(t, f.store.Repositories().Masjids.Create(context.Background(), &m))
	return m
}

func ptr[T any](v T) *T { return &v }

func validData(name string) masjidModel.MasjidData {
	return masjidModel.MasjidData{
		MasjidName:      ptr(name),
		MasjidAddress:   ptr("Jl. Taman Wijaya Kusuma, Jakarta"),
		MasjidLongitude: ptr(106.8314),
		MasjidLatitude:  ptr(-6.1702),
		MasjidPrayerTimes: &masjidModel.PrayerTimes{
			Fajr: "04:35", Dhuhr: "11:55", Asr: "15:15", Maghrib: "17:55", Isha: "19:05",
		},
		MasjidDescription: ptr("Masjid negara"),
	}
}

func (f *fixture) submit(t *testing.T, actor authz.Actor, in dto.CreateRequestRequest) *dto.RequestResponse {
	t.Helper()
	res, err := f.svc.Submit(context.Background(), actor, in)
	require.NoError(t, err)
	return res
}

func approve() dto.ProcessRequestRequest {
	return dto.ProcessRequestRequest{RequestStatus: "approved", RequestAdminResponse: "ok"}
}

func TestApproveAddMasjidCreditsRequester(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	data := validData("Istiqlal")
	req := f.submit(t, f.user, dto.CreateRequestRequest{
		RequestType:       "add_masjid",
		RequestMasjidData: &data,
		RequestReason:     "belum ada di peta",
	})
	assert.Equal(t, model.StatusPending, req.RequestStatus)
	assert.Nil(t, req.RequestProcessedBy)
	assert.Equal(t, f.user.ID, req.RequestRequestedBy.ID)
	assert.Equal(t, constants.RoleUser, req.RequestRequestedBy.Role)

	// mutasi input setelah submit tidak boleh mengubah snapshot
	*data.MasjidName = "Diubah"

	done, err := f.svc.Process(ctx, f.mainAdmin, req.RequestID, approve())
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, done.RequestStatus)
	require.NotNil(t, done.RequestProcessedBy)
	assert.Equal(t, f.mainAdmin.ID, done.RequestProcessedBy.ID)
	assert.NotNil(t, done.RequestProcessedAt)
	assert.Equal(t, "ok", done.RequestAdminResponse)

	all, err := f.store.Repositories().Masjids.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Istiqlal", all[0].MasjidName)
	assert.Equal(t, f.user.ID, all[0].MasjidAddedBy)
	assert.EqualValues(t, 1, f.cache.invalidations.Load())
}

func TestApproveAdminAccessPromotesRequester(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	req := f.submit(t, f.user, dto.CreateRequestRequest{RequestType: "admin_access"})
	_, err := f.svc.Process(ctx, f.mainAdmin, req.RequestID, approve())
	require.NoError(t, err)

	u, err := f.store.Repositories().Users.FindByID(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.RoleAdmin, u.Role)
	assert.Zero(t, f.cache.invalidations.Load())
}

func TestAdminAccessRules(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.submit(t, f.user, dto.CreateRequestRequest{RequestType: "admin_access"})

	_, err := f.svc.Submit(ctx, f.user, dto.CreateRequestRequest{RequestType: "admin_access"})
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindConflict))
	assert.Contains(t, err.Error(), "pending admin access")

	// user lain tidak terpengaruh
	f.submit(t, f.other, dto.CreateRequestRequest{RequestType: "admin_access"})

	for _, actor := range []authz.Actor{f.admin, f.mainAdmin} {
		_, err := f.svc.Submit(ctx, actor, dto.CreateRequestRequest{RequestType: "admin_access"})
		assert.True(t, apperror.Is(err, apperror.KindConflict))
	}
}

func TestAdminAccessAfterRejectionCanResubmit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	req := f.submit(t, f.user, dto.CreateRequestRequest{RequestType: "admin_access"})
	_, err := f.svc.Process(ctx, f.mainAdmin, req.RequestID, dto.ProcessRequestRequest{RequestStatus: "rejected"})
	require.NoError(t, err)

	f.submit(t, f.user, dto.CreateRequestRequest{RequestType: "admin_access"})
}

func TestConcurrentAdminAccessSubmissions(t *testing.T) {
	f := newFixture(t)

	var ok atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Submit(context.Background(), f.user, dto.CreateRequestRequest{RequestType: "admin_access"})
			if err == nil {
				ok.Add(1)
				return
			}
			assert.True(t, apperror.Is(err, apperror.KindConflict))
		}()
	}
	wg.Wait()
	assert.EqualValues(t, 1, ok.Load())
}

func TestSubmitValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	masjid := f.addMasjid(t, "Al-Azhar")

	cases := []struct {
		name string
		in   dto.CreateRequestRequest
		kind apperror.Kind
	}{
		{"missing type", dto.CreateRequestRequest{}, apperror.KindInvalidInput},
		{"unknown type", dto.CreateRequestRequest{RequestType: "promote_me"}, apperror.KindInvalidInput},
		{"add without data", dto.CreateRequestRequest{RequestType: "add_masjid"}, apperror.KindInvalidInput},
		{"add incomplete", dto.CreateRequestRequest{RequestType: "add_masjid", RequestMasjidData: &masjidModel.MasjidData{MasjidName: ptr("x")}}, apperror.KindInvalidInput},
		{"edit without id", dto.CreateRequestRequest{RequestType: "edit_masjid", RequestMasjidData: &masjidModel.MasjidData{MasjidName: ptr("x")}}, apperror.KindInvalidInput},
		{"edit bad id", dto.CreateRequestRequest{RequestType: "edit_masjid", RequestMasjidID: "nope", RequestMasjidData: &masjidModel.MasjidData{MasjidName: ptr("x")}}, apperror.KindInvalidInput},
		{"edit empty data", dto.CreateRequestRequest{RequestType: "edit_masjid", RequestMasjidID: masjid.MasjidID.String(), RequestMasjidData: &masjidModel.MasjidData{}}, apperror.KindInvalidInput},
		{"edit unknown masjid", dto.CreateRequestRequest{RequestType: "edit_masjid", RequestMasjidID: uuid.NewString(), RequestMasjidData: &masjidModel.MasjidData{MasjidName: ptr("x")}}, apperror.KindNotFound},
		{"delete without id", dto.CreateRequestRequest{RequestType: "delete_masjid"}, apperror.KindInvalidInput},
		{"delete unknown masjid", dto.CreateRequestRequest{RequestType: "delete_masjid", RequestMasjidID: uuid.NewString()}, apperror.KindNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Submit(ctx, f.user, tc.in)
			require.Error(t, err)
			assert.Equal(t, tc.kind, apperror.KindOf(err), err.Error())
		})
	}

	mine, err := f.svc.ListMine(ctx, f.user)
	require.NoError(t, err)
	assert.Empty(t, mine)
}

func TestApproveEditMasjidPartialUpdate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	masjid := f.addMasjid(t, "Al-Azhar")

	req := f.submit(t, f.user, dto.CreateRequestRequest{
		RequestType:     "edit_masjid",
		RequestMasjidID: masjid.MasjidID.String(),
		RequestMasjidData: &masjidModel.MasjidData{
			MasjidName:        ptr("Masjid Agung Al-Azhar"),
			MasjidLatitude:    ptr(-6.2354), // tanpa longitude: lokasi tidak diganti
			MasjidPhoneNumber: ptr("021-7243221"),
		},
	})
	require.NotNil(t, req.RequestMasjid)
	assert.Equal(t, "Al-Azhar", req.RequestMasjid.MasjidName)
	require.NotNil(t, req.RequestMasjidData)

	_, err := f.svc.Process(ctx, f.mainAdmin, req.RequestID, approve())
	require.NoError(t, err)

	got, err := f.store.Repositories().Masjids.FindByID(ctx, masjid.MasjidID)
	require.NoError(t, err)
	assert.Equal(t, "Masjid Agung Al-Azhar", got.MasjidName)
	assert.Equal(t, "021-7243221", got.MasjidPhoneNumber)
	assert.Equal(t, masjid.MasjidLatitude, got.MasjidLatitude)
	assert.Equal(t, masjid.MasjidLongitude, got.MasjidLongitude)
	assert.Equal(t, masjid.MasjidAddress, got.MasjidAddress)
	assert.Equal(t, f.mainAdmin.ID, got.MasjidAddedBy)
	assert.False(t, got.MasjidUpdatedAt.Before(masjid.MasjidUpdatedAt))
}

func TestApproveEditOfDeletedMasjidLeavesRequestPending(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	masjid := f.addMasjid(t, "Al-Azhar")

	req := f.submit(t, f.user, dto.CreateRequestRequest{
		RequestType:       "edit_masjid",
		RequestMasjidID:   masjid.MasjidID.String(),
		RequestMasjidData: &masjidModel.MasjidData{MasjidName: ptr("Baru")},
	})
	require.NoError(t, f.store.Repositories().Masjids.Delete(ctx, masjid.MasjidID))

	_, err := f.svc.Process(ctx, f.mainAdmin, req.RequestID, approve())
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	still, err := f.store.Repositories().Requests.FindByID(ctx, req.RequestID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, still.RequestStatus)
	assert.Nil(t, still.RequestProcessedBy)
	assert.Zero(t, f.cache.invalidations.Load())

	// masih bisa ditolak
	_, err = f.svc.Process(ctx, f.mainAdmin, req.RequestID, dto.ProcessRequestRequest{RequestStatus: "rejected"})
	require.NoError(t, err)
}

func TestApproveDeleteMasjidIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	masjid := f.addMasjid(t, "Al-Azhar")

	first := f.submit(t, f.user, dto.CreateRequestRequest{RequestType: "delete_masjid", RequestMasjidID: masjid.MasjidID.String()})
	second := f.submit(t, f.other, dto.CreateRequestRequest{RequestType: "delete_masjid", RequestMasjidID: masjid.MasjidID.String()})

	_, err := f.svc.Process(ctx, f.mainAdmin, first.RequestID, approve())
	require.NoError(t, err)
	_, err = f.store.Repositories().Masjids.FindByID(ctx, masjid.MasjidID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	// masjid sudah hilang: approve tetap sukses
	done, err := f.svc.Process(ctx, f.mainAdmin, second.RequestID, approve())
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, done.RequestStatus)
	assert.Nil(t, done.RequestMasjid)
	assert.Equal(t, masjid.MasjidID, *done.RequestMasjidID)
}

func TestRejectHasNoSideEffect(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	data := validData("Istiqlal")
	req := f.submit(t, f.user, dto.CreateRequestRequest{RequestType: "add_masjid", RequestMasjidData: &data})

	done, err := f.svc.Process(ctx, f.mainAdmin, req.RequestID, dto.ProcessRequestRequest{RequestStatus: "rejected", RequestAdminResponse: "duplikat"})
	require.NoError(t, err)
	assert.Equal(t, model.StatusRejected, done.RequestStatus)
	assert.Equal(t, "duplikat", done.RequestAdminResponse)
	require.NotNil(t, done.RequestProcessedBy)

	all, err := f.store.Repositories().Masjids.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestProcessErrors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	req := f.submit(t, f.user, dto.CreateRequestRequest{RequestType: "admin_access"})

	_, err := f.svc.Process(ctx, f.admin, req.RequestID, approve())
	assert.True(t, apperror.Is(err, apperror.KindForbidden))

	_, err = f.svc.Process(ctx, f.mainAdmin, req.RequestID, dto.ProcessRequestRequest{RequestStatus: "pending"})
	assert.True(t, apperror.Is(err, apperror.KindInvalidInput))

	// status divalidasi sebelum keberadaan request
	_, err = f.svc.Process(ctx, f.mainAdmin, uuid.New(), dto.ProcessRequestRequest{RequestStatus: "maybe"})
	assert.True(t, apperror.Is(err, apperror.KindInvalidInput))

	_, err = f.svc.Process(ctx, f.mainAdmin, uuid.New(), approve())
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	_, err = f.svc.Process(ctx, f.mainAdmin, req.RequestID, approve())
	require.NoError(t, err)

	// terminal: tidak bisa diproses ulang ke arah mana pun
	for _, st := range []string{"approved", "rejected"} {
		_, err = f.svc.Process(ctx, f.mainAdmin, req.RequestID, dto.ProcessRequestRequest{RequestStatus: st})
		require.Error(t, err)
		assert.True(t, apperror.Is(err, apperror.KindConflict))
	}
}

func TestConcurrentProcessAppliesOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	data := validData("Istiqlal")
	req := f.submit(t, f.user, dto.CreateRequestRequest{RequestType: "add_masjid", RequestMasjidData: &data})

	var ok, conflict atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			status := "approved"
			if i%2 == 1 {
				status = "rejected"
			}
			_, err := f.svc.Process(ctx, f.mainAdmin, req.RequestID, dto.ProcessRequestRequest{RequestStatus: status})
			switch {
			case err == nil:
				ok.Add(1)
			case apperror.Is(err, apperror.KindConflict):
				conflict.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.EqualValues(t, 1, ok.Load())
	assert.EqualValues(t, 7, conflict.Load())

	final, err := f.store.Repositories().Requests.FindByID(ctx, req.RequestID)
	require.NoError(t, err)
	all, err := f.store.Repositories().Masjids.FindAll(ctx)
	require.NoError(t, err)
	if final.RequestStatus == model.StatusApproved {
		assert.Len(t, all, 1)
	} else {
		assert.Empty(t, all)
	}
}

func TestProcessRollsBackSideEffectWhenStatusWriteFails(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	data := validData("Istiqlal")
	req := f.submit(t, f.user, dto.CreateRequestRequest{RequestType: "add_masjid", RequestMasjidData: &data})

	f.store.FailNextMarkProcessed(errors.New("disk full"))
	_, err := f.svc.Process(ctx, f.mainAdmin, req.RequestID, approve())
	require.Error(t, err)

	all, err := f.store.Repositories().Masjids.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	still, err := f.store.Repositories().Requests.FindByID(ctx, req.RequestID)
	require.NoError(t, err)
	assert.True(t, still.IsPending())
	assert.Zero(t, f.cache.invalidations.Load())
}

func TestReadAccess(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	mine := f.submit(t, f.user, dto.CreateRequestRequest{RequestType: "admin_access"})
	f.submit(t, f.other, dto.CreateRequestRequest{RequestType: "admin_access"})

	got, err := f.svc.Get(ctx, f.user, mine.RequestID)
	require.NoError(t, err)
	assert.Equal(t, mine.RequestID, got.RequestID)

	_, err = f.svc.Get(ctx, f.other, mine.RequestID)
	assert.True(t, apperror.Is(err, apperror.KindForbidden))

	_, err = f.svc.Get(ctx, f.mainAdmin, mine.RequestID)
	require.NoError(t, err)

	list, err := f.svc.ListMine(ctx, f.user)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, mine.RequestID, list[0].RequestID)

	_, err = f.svc.ListAll(ctx, f.admin, dto.ListRequestsQuery{})
	assert.True(t, apperror.Is(err, apperror.KindForbidden))

	all, err := f.svc.ListAll(ctx, f.mainAdmin, dto.ListRequestsQuery{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
	// terbaru dulu
	assert.Equal(t, f.other.ID, all[0].RequestRequestedBy.ID)
}

func TestListAllFilters(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	masjid := f.addMasjid(t, "Al-Azhar")

	a := f.submit(t, f.user, dto.CreateRequestRequest{RequestType: "admin_access"})
	f.submit(t, f.other, dto.CreateRequestRequest{RequestType: "delete_masjid", RequestMasjidID: masjid.MasjidID.String()})
	_, err := f.svc.Process(ctx, f.mainAdmin, a.RequestID, dto.ProcessRequestRequest{RequestStatus: "rejected"})
	require.NoError(t, err)

	pending, err := f.svc.ListAll(ctx, f.mainAdmin, dto.ListRequestsQuery{Status: "pending"})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, model.TypeDeleteMasjid, pending[0].RequestType)

	admins, err := f.svc.ListAll(ctx, f.mainAdmin, dto.ListRequestsQuery{Type: "admin_access"})
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, model.StatusRejected, admins[0].RequestStatus)

	_, err = f.svc.ListAll(ctx, f.mainAdmin, dto.ListRequestsQuery{Status: "done"})
	assert.True(t, apperror.Is(err, apperror.KindInvalidInput))
}

func TestDeleteRequest(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	mine := f.submit(t, f.user, dto.CreateRequestRequest{RequestType: "admin_access"})
	theirs := f.submit(t, f.other, dto.CreateRequestRequest{RequestType: "admin_access"})

	err := f.svc.Delete(ctx, f.user, theirs.RequestID)
	assert.True(t, apperror.Is(err, apperror.KindForbidden))

	require.NoError(t, f.svc.Delete(ctx, f.user, mine.RequestID))
	err = f.svc.Delete(ctx, f.user, mine.RequestID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	// sudah diproses: tidak bisa dihapus, bahkan oleh main_admin
	_, err = f.svc.Process(ctx, f.mainAdmin, theirs.RequestID, dto.ProcessRequestRequest{RequestStatus: "rejected"})
	require.NoError(t, err)
	err = f.svc.Delete(ctx, f.mainAdmin, theirs.RequestID)
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindConflict))
	assert.Contains(t, err.Error(), "Cannot delete processed requests")
}

func TestSnapshotRoundTrip(t *testing.T) {
	data := validData("Istiqlal")
	p, err := model.NewProposal(model.TypeAddMasjid, nil, &data)
	require.NoError(t, err)

	var r model.RequestModel
	r.SetProposal(p)
	assert.Nil(t, r.RequestMasjidID)

	back, err := r.Proposal()
	require.NoError(t, err)
	add, ok := back.(model.AddMasjid)
	require.True(t, ok)
	assert.Equal(t, data, add.Data)
	assert.NotSame(t, data.MasjidName, add.Data.MasjidName)
}
