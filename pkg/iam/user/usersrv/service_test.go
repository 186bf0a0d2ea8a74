package usersrv_test

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/Abraxas-365/turnkey/pkg/errx"
	"github.com/Abraxas-365/turnkey/pkg/iam/user"
	"github.com/Abraxas-365/turnkey/pkg/iam/user/usersrv"
	"github.com/Abraxas-365/turnkey/pkg/kernel"
)

type fakeUserRepo struct {
	users map[kernel.UserID]*user.User
}

func newFakeUserRepo(users ...*user.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[kernel.UserID]*user.User)}
	for _, u := range users {
		cp := *u
		r.users[u.ID] = &cp
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, u *user.User) error {
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id kernel.UserID) (*user.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, user.ErrUserNotFound()
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) FindByEmailAndApp(_ context.Context, email string, appID kernel.AppID) (*user.User, error) {
	for _, u := range r.users {
		if u.Email == email && u.AppID == appID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, user.ErrUserNotFound()
}

func (r *fakeUserRepo) MarkVerified(_ context.Context, id kernel.UserID) error {
	u, ok := r.users[id]
	if !ok {
		return user.ErrUserNotFound()
	}
	u.IsVerified = true
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, appID kernel.AppID, opts kernel.PaginationOptions) ([]user.User, int, error) {
	var matched []user.User
	for _, u := range r.users {
		if u.AppID != appID {
			continue
		}
		if opts.Search != "" && !strings.Contains(u.Email, opts.Search) && !strings.Contains(u.Name, opts.Search) {
			continue
		}
		matched = append(matched, *u)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Email < matched[j].Email })

	total := len(matched)
	start := opts.Offset()
	if start > total {
		start = total
	}
	end := start + opts.PageSize
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id kernel.UserID) error {
	if _, ok := r.users[id]; !ok {
		return user.ErrUserNotFound()
	}
	delete(r.users, id)
	return nil
}

func seedUsers(appID string, n int) []*user.User {
	out := make([]*user.User, n)
	for i := range out {
		out[i] = &user.User{
			ID:    kernel.NewUserID(fmt.Sprintf("%s-user-%02d", appID, i)),
			Name:  fmt.Sprintf("User %02d", i),
			Email: fmt.Sprintf("user%02d@%s.example.com", i, appID),
			AppID: kernel.NewAppID(appID),
			Role:  user.RoleUser,
		}
	}
	return out
}

func TestListUsers_ScopedToApp(t *testing.T) {
	var all []*user.User
	all = append(all, seedUsers("app-1", 3)...)
	all = append(all, seedUsers("app-2", 2)...)
	svc := usersrv.NewUserService(newFakeUserRepo(all...))

	page, err := svc.ListUsers(context.Background(), "app-1", kernel.PaginationOptions{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Page.Total != 3 {
		t.Fatalf("total = %d, want 3", page.Page.Total)
	}
	for _, p := range page.Items {
		if p.AppID != kernel.NewAppID("app-1") {
			t.Errorf("leaked user from %s", p.AppID)
		}
	}
}

func TestListUsers_Pagination(t *testing.T) {
	svc := usersrv.NewUserService(newFakeUserRepo(seedUsers("app-1", 25)...))

	page, err := svc.ListUsers(context.Background(), "app-1", kernel.PaginationOptions{Page: 3, PageSize: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Items) != 5 {
		t.Errorf("page 3 size = %d, want 5", len(page.Items))
	}
	if page.Page.Pages != 3 {
		t.Errorf("pages = %d, want 3", page.Page.Pages)
	}
	if page.HasNext() {
		t.Error("last page must not report a next page")
	}
}

func TestListUsers_Search(t *testing.T) {
	svc := usersrv.NewUserService(newFakeUserRepo(seedUsers("app-1", 12)...))

	page, err := svc.ListUsers(context.Background(), "app-1", kernel.PaginationOptions{Page: 1, PageSize: 10, Search: "user07"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Page.Total != 1 {
		t.Fatalf("total = %d, want 1", page.Page.Total)
	}
}

func TestDeleteUser(t *testing.T) {
	users := seedUsers("app-1", 1)
	repo := newFakeUserRepo(users...)
	svc := usersrv.NewUserService(repo)

	profile, err := svc.DeleteUser(context.Background(), users[0].ID, "app-1")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if profile.ID != users[0].ID {
		t.Errorf("returned profile id = %s, want %s", profile.ID, users[0].ID)
	}
	if _, err := repo.FindByID(context.Background(), users[0].ID); !errx.Is(err, user.ErrUserNotFound()) {
		t.Fatal("user must be gone")
	}
}

func TestDeleteUser_ForeignAppRefused(t *testing.T) {
	users := seedUsers("app-1", 1)
	repo := newFakeUserRepo(users...)
	svc := usersrv.NewUserService(repo)

	_, err := svc.DeleteUser(context.Background(), users[0].ID, "app-2")
	if !errx.Is(err, user.ErrForeignApp()) {
		t.Fatalf("expected foreign-app refusal, got %v", err)
	}
	if _, err := repo.FindByID(context.Background(), users[0].ID); err != nil {
		t.Fatal("user must survive a refused cross-app delete")
	}
}

func TestDeleteUser_Unknown(t *testing.T) {
	svc := usersrv.NewUserService(newFakeUserRepo())

	_, err := svc.DeleteUser(context.Background(), "ghost", "app-1")
	if !errx.Is(err, user.ErrUserNotFound()) {
		t.Fatalf("expected user-not-found, got %v", err)
	}
}
