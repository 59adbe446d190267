package connect

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dropDatabas3/autolink/internal/oauth/linkedin"
	"github.com/dropDatabas3/autolink/internal/oauth/state"
	"github.com/dropDatabas3/autolink/internal/observability/logger"
	"github.com/dropDatabas3/autolink/internal/store"
)

// CallbackDeps contains dependencies for the orchestrator.
type CallbackDeps struct {
	Codec       state.Codec
	Nonces      state.NonceStore // optional; nil skips the server-side nonce check
	Tokens      TokenExchanger
	Identity    IdentityResolver
	Credentials store.CredentialGateway
	Automation  AutomationStarter // optional

	// RedirectURI is the callback URI registered with the provider.
	RedirectURI string
	// AllowedRedirectURIs restricts Complete; defaults to RedirectURI.
	AllowedRedirectURIs []string

	ExchangeTimeout   time.Duration
	IdentityTimeout   time.Duration
	PersistTimeout    time.Duration
	AutomationTimeout time.Duration
	Clock             func() time.Time
}

// Orchestrator runs Received → StateValidated → Exchanged → Resolved →
// Persisted → Terminal. Every collaborator call is bounded by its own timeout.
type Orchestrator struct {
	codec       state.Codec
	nonces      state.NonceStore
	tokens      TokenExchanger
	identity    IdentityResolver
	credentials store.CredentialGateway
	automation  AutomationStarter

	redirectURI string
	allowed     map[string]struct{}

	exchangeTO   time.Duration
	identityTO   time.Duration
	persistTO    time.Duration
	automationTO time.Duration
	clock        func() time.Time

	inflight sync.WaitGroup
}

// NewOrchestrator creates the callback orchestrator.
func NewOrchestrator(d CallbackDeps) *Orchestrator {
	o := &Orchestrator{
		codec:        d.Codec,
		nonces:       d.Nonces,
		tokens:       d.Tokens,
		identity:     d.Identity,
		credentials:  d.Credentials,
		automation:   d.Automation,
		redirectURI:  d.RedirectURI,
		allowed:      map[string]struct{}{},
		exchangeTO:   d.ExchangeTimeout,
		identityTO:   d.IdentityTimeout,
		persistTO:    d.PersistTimeout,
		automationTO: d.AutomationTimeout,
		clock:        d.Clock,
	}
	if o.codec == nil {
		o.codec = state.PlainCodec{}
	}
	if o.exchangeTO <= 0 {
		o.exchangeTO = 10 * time.Second
	}
	if o.identityTO <= 0 {
		o.identityTO = 10 * time.Second
	}
	if o.persistTO <= 0 {
		o.persistTO = 10 * time.Second
	}
	if o.automationTO <= 0 {
		o.automationTO = 10 * time.Second
	}
	if o.clock == nil {
		o.clock = time.Now
	}
	allowed := d.AllowedRedirectURIs
	if len(allowed) == 0 && d.RedirectURI != "" {
		allowed = []string{d.RedirectURI}
	}
	for _, u := range allowed {
		o.allowed[u] = struct{}{}
	}
	return o
}

// HandleCallback processes the provider redirect. It always returns an
// Outcome; errors are carried in Outcome.Err.
func (o *Orchestrator) HandleCallback(ctx context.Context, req CallbackRequest) Outcome {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("connect.callback"))

	// Received
	if req.Error != "" {
		log.Info("provider returned error",
			logger.ErrCode(req.Error),
			logger.String("error_description", req.ErrorDescription),
		)
		msg := req.ErrorDescription
		if msg == "" {
			msg = MsgProviderDenied
		}
		return Outcome{
			Stage:   StageReceived,
			Code:    req.Error,
			Message: msg,
			Err:     &ProviderDeniedError{Code: req.Error, Description: req.ErrorDescription},
		}
	}
	if req.Code == "" {
		log.Warn("callback without code")
		return Outcome{Stage: StageReceived, Code: CodeMissingCode, Message: MsgMissingCode, Err: ErrMissingCode}
	}

	// StateValidated: no network call may happen before this passes.
	st, err := o.codec.Decode(req.State)
	if err != nil {
		log.Warn("state decode failed", logger.Err(err))
		return mismatch(StageReceived, "", err)
	}
	if err := o.checkNonce(ctx, st, req.CookieNonce); err != nil {
		log.Warn("state validation failed", logger.UserID(st.UserID), logger.Err(err))
		return mismatch(StageReceived, st.UserID, err)
	}

	return o.complete(ctx, st.UserID, req.Code, o.redirectURI)
}

// Complete runs the flow from StateValidated for a caller whose identity is
// already authenticated (the exchange endpoint). redirectURI must be allowed.
func (o *Orchestrator) Complete(ctx context.Context, userID, code, redirectURI string) Outcome {
	if userID == "" {
		return Outcome{Stage: StageReceived, Code: CodeInvalidRequest, Message: "Missing user.", Err: ErrMissingUser}
	}
	if code == "" {
		return Outcome{Stage: StageReceived, Code: CodeMissingCode, Message: MsgMissingCode, UserID: userID, Err: ErrMissingCode}
	}
	if redirectURI == "" {
		redirectURI = o.redirectURI
	}
	if _, ok := o.allowed[redirectURI]; !ok {
		return Outcome{
			Stage:   StageReceived,
			Code:    CodeInvalidRequest,
			Message: MsgRedirectInvalid,
			UserID:  userID,
			Err:     fmt.Errorf("%w: %q", ErrRedirectNotAllowed, redirectURI),
		}
	}
	return o.complete(ctx, userID, code, redirectURI)
}

func (o *Orchestrator) checkNonce(ctx context.Context, st state.State, cookieNonce string) error {
	if o.nonces != nil {
		uid, ok, err := o.nonces.Consume(ctx, st.Nonce)
		if err != nil {
			return fmt.Errorf("%w: nonce store: %v", ErrStateMismatch, err)
		}
		if !ok {
			return fmt.Errorf("%w: unknown or already used nonce", ErrStateMismatch)
		}
		if uid != st.UserID {
			return fmt.Errorf("%w: nonce bound to another user", ErrStateMismatch)
		}
	}
	if cookieNonce != "" && cookieNonce != st.Nonce {
		return fmt.Errorf("%w: cookie nonce differs", ErrStateMismatch)
	}
	return nil
}

func (o *Orchestrator) complete(ctx context.Context, userID, code, redirectURI string) Outcome {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("connect.callback"),
		logger.UserID(userID),
	)
	out := Outcome{Stage: StageStateValidated, UserID: userID}

	// Exchanged
	xctx, cancel := context.WithTimeout(ctx, o.exchangeTO)
	tok, err := o.tokens.Exchange(xctx, code, redirectURI)
	cancel()
	if err != nil {
		log.Warn("token exchange failed", logger.Stage(out.Stage.String()), logger.Err(err))
		out.Code, out.Message, out.Err = CodeExchangeFailed, exchangeMessage(err), err
		return out
	}
	receivedAt := o.clock()
	out.Stage = StageExchanged

	// Resolved; the token is dropped if this fails.
	ictx, cancel := context.WithTimeout(ctx, o.identityTO)
	sub, err := o.identity.ResolveIdentity(ictx, tok.AccessToken)
	cancel()
	if err != nil {
		log.Warn("identity resolution failed", logger.Stage(out.Stage.String()), logger.Err(err))
		out.Code, out.Message, out.Err = CodeExchangeFailed, MsgProfileFailed, err
		return out
	}
	out.Stage = StageResolved

	// Persisted
	cred := store.Credential{
		UserID:            userID,
		AccessToken:       tok.AccessToken,
		ExternalProfileID: sub,
		Connected:         true,
		TokenExpiresAt:    receivedAt.Add(time.Duration(tok.ExpiresIn) * time.Second),
	}
	pctx, cancel := context.WithTimeout(ctx, o.persistTO)
	err = o.credentials.UpsertCredential(pctx, cred)
	cancel()
	if err != nil {
		log.Error("persist credential failed", logger.Stage(out.Stage.String()), logger.Err(err))
		out.Code, out.Message, out.Err = CodeExchangeFailed, MsgPersistFailed, store.Wrap("upsert_credential", err)
		return out
	}
	out.Stage = StagePersisted
	out.Success = true

	log.Info("linkedin connected",
		logger.ExternalID(sub),
		logger.Token("access_token", tok.AccessToken),
		logger.Any("token_expires_at", cred.TokenExpiresAt),
	)

	o.startAutomation(ctx, userID)
	return out
}

// startAutomation runs detached from the request and never blocks the redirect.
func (o *Orchestrator) startAutomation(ctx context.Context, userID string) {
	if o.automation == nil {
		return
	}
	log := logger.From(ctx).With(logger.Component("connect.automation"), logger.UserID(userID))
	actx := logger.ToContext(context.WithoutCancel(ctx), log)

	o.inflight.Add(1)
	go func() {
		defer o.inflight.Done()
		defer func() {
			if r := recover(); r != nil {
				log.Error("automation start panicked", logger.Any("panic", r))
			}
		}()

		actx, cancel := context.WithTimeout(actx, o.automationTO)
		defer cancel()
		if err := o.automation.Start(actx, userID); err != nil {
			log.Warn("automation start failed", logger.Err(err))
		}
	}()
}

// Wait blocks until in-flight automation starts finish or ctx ends.
func (o *Orchestrator) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		o.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func mismatch(stage Stage, userID string, err error) Outcome {
	if !errors.Is(err, ErrStateMismatch) {
		err = fmt.Errorf("%w: %w", ErrStateMismatch, err)
	}
	return Outcome{Stage: stage, Code: CodeStateMismatch, Message: MsgStateMismatch, UserID: userID, Err: err}
}

func exchangeMessage(err error) string {
	var te *linkedin.TokenExchangeError
	if errors.As(err, &te) && te.ProviderMessage != "" {
		return te.ProviderMessage
	}
	return MsgExchangeFailed
}
