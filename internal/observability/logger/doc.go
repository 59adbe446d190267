// Package logger provides the process-wide zap logger and its request-scoped
// variants.
//
// # Design
//
//   - Singleton: one instance built by Init() from the service config.
//   - Context scoping: middlewares attach a logger carrying request_id, method
//     and path; services recover it with From(ctx) and add their own fields.
//   - Environments: "dev" logs colored console lines, "prod" logs JSON.
//   - Secrets: the core masks string fields named access_token, code,
//     client_secret and similar keys; Token() masks any other key.
//
// # Usage
//
//	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, ServiceName: "autolink"})
//	defer logger.Sync()
//
//	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("connect.callback"))
//	log.Info("credential stored", logger.UserID(userID))
package logger
