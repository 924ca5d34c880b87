package service

import (
	"context"

	"github.com/secureflow/payment-gateway/internal/store"
)

type mockStore struct {
	createUserFunc             func(ctx context.Context, r store.CreateUserRequest) (store.User, error)
	getUserByUsernameFunc      func(ctx context.Context, username string) (store.User, error)
	usernameTakenFunc          func(ctx context.Context, username string) (bool, error)
	emailTakenFunc             func(ctx context.Context, email string) (bool, error)
	createPaymentFunc          func(ctx context.Context, r store.CreatePaymentRequest) (store.Payment, error)
	getPaymentByProviderIDFunc func(ctx context.Context, providerID string) (store.Payment, error)
	updatePaymentStatusFunc    func(ctx context.Context, r store.UpdatePaymentStatusRequest) error
}

func (m *mockStore) CreateUser(ctx context.Context, r store.CreateUserRequest) (store.User, error) {
	return m.createUserFunc(ctx, r)
}

func (m *mockStore) GetUserByUsername(ctx context.Context, username string) (store.User, error) {
	return m.getUserByUsernameFunc(ctx, username)
}

func (m *mockStore) UsernameTaken(ctx context.Context, username string) (bool, error) {
	return m.usernameTakenFunc(ctx, username)
}

func (m *mockStore) EmailTaken(ctx context.Context, email string) (bool, error) {
	return m.emailTakenFunc(ctx, email)
}

func (m *mockStore) CreatePayment(ctx context.Context, r store.CreatePaymentRequest) (store.Payment, error) {
	return m.createPaymentFunc(ctx, r)
}

func (m *mockStore) GetPaymentByProviderID(ctx context.Context, providerID string) (store.Payment, error) {
	return m.getPaymentByProviderIDFunc(ctx, providerID)
}

func (m *mockStore) UpdatePaymentStatus(ctx context.Context, r store.UpdatePaymentStatusRequest) error {
	return m.updatePaymentStatusFunc(ctx, r)
}

func (m *mockStore) WithTx(ctx context.Context, fn func(store.Store) error) error {
	return fn(m)
}
