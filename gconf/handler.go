package gconf

import (
	"reflect"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/x"
)

// OwnedConfig is a configuration with an owner. A configuration update
// message must be signed by the owner in order to be authorized.
type OwnedConfig interface {
	Configuration
	GetOwner() timelock.Address
}

// PatchMsg is implemented by configuration update messages. The patch must
// be of the same type as the stored configuration.
type PatchMsg interface {
	timelock.Msg
	GetPatch() OwnedConfig
}

// UpdateConfigurationHandler applies a configuration patch signed by the
// current configuration owner. Zero value fields of the patch do not change
// the configuration.
type UpdateConfigurationHandler struct {
	pkg    string
	config OwnedConfig
	auth   x.Authenticator
}

var _ timelock.Handler = UpdateConfigurationHandler{}

// NewUpdateConfigurationHandler returns a handler for the configuration of
// given package. Config is used to load the current state and must be a
// pointer to the configuration type.
func NewUpdateConfigurationHandler(pkg string, config OwnedConfig, auth x.Authenticator) UpdateConfigurationHandler {
	return UpdateConfigurationHandler{
		pkg:    pkg,
		config: config,
		auth:   auth,
	}
}

func (h UpdateConfigurationHandler) Check(ctx timelock.Context, store timelock.KVStore, tx timelock.Tx) (*timelock.CheckResult, error) {
	if err := h.applyTx(ctx, store, tx); err != nil {
		return nil, err
	}
	return &timelock.CheckResult{}, nil
}

func (h UpdateConfigurationHandler) Deliver(ctx timelock.Context, store timelock.KVStore, tx timelock.Tx) (*timelock.DeliverResult, error) {
	if err := h.applyTx(ctx, store, tx); err != nil {
		return nil, err
	}
	return &timelock.DeliverResult{}, nil
}

func (h UpdateConfigurationHandler) applyTx(ctx timelock.Context, store timelock.KVStore, tx timelock.Tx) error {
	// Each call works on its own copy, so that the handler can be shared.
	config := reflect.New(reflect.TypeOf(h.config).Elem()).Interface().(OwnedConfig)
	if err := Load(store, h.pkg, config); err != nil {
		return errors.Wrap(err, "load current configuration")
	}
	owner := config.GetOwner()
	if owner == nil {
		return errors.Wrap(errors.ErrUnauthorized, "configuration has no owner")
	}
	if !h.auth.HasAddress(ctx, owner) {
		return errors.Wrap(errors.ErrUnauthorized, "owner did not sign transaction")
	}

	msg, err := tx.GetMsg()
	if err != nil {
		return errors.Wrap(err, "cannot get message")
	}
	pmsg, ok := msg.(PatchMsg)
	if !ok {
		return errors.Wrapf(errors.ErrInvalidMsg, "%T is not a configuration patch", msg)
	}
	if err := pmsg.Validate(); err != nil {
		return errors.Wrap(err, "invalid message")
	}
	if err := patch(config, pmsg.GetPatch()); err != nil {
		return errors.Wrap(err, "cannot patch config with message payload")
	}
	if err := Save(store, h.pkg, config); err != nil {
		return errors.Wrap(err, "cannot save updated config")
	}
	return nil
}

// patch copies all non zero fields of payload into config.
func patch(config OwnedConfig, payload OwnedConfig) error {
	if payload == nil || reflect.ValueOf(payload).IsNil() {
		return errors.Wrap(errors.ErrEmpty, "patch")
	}
	if reflect.TypeOf(payload) != reflect.TypeOf(config) {
		return errors.Wrapf(errors.ErrInvalidType, "cannot patch %T with %T", config, payload)
	}
	cval := reflect.ValueOf(config).Elem()
	pval := reflect.ValueOf(payload).Elem()
	for i := 0; i < cval.NumField(); i++ {
		got := pval.Field(i)
		if isZero(got) {
			continue
		}
		cval.Field(i).Set(got)
	}
	return nil
}

func isZero(val reflect.Value) bool {
	zero := reflect.Zero(val.Type()).Interface()
	return reflect.DeepEqual(val.Interface(), zero)
}
