// Package metrics Prometheus 指标定义
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal HTTP 请求计数
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration HTTP 请求耗时
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// LoginFailures 登录失败次数，reason: unknown_user | bad_password | locked
	LoginFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clubreview_login_failures_total",
			Help: "Failed login attempts by reason",
		},
		[]string{"reason"},
	)

	// AccountLockouts 账号被锁定次数
	AccountLockouts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "clubreview_account_lockouts_total",
			Help: "Accounts locked after too many failed logins",
		},
	)

	// FileUploads 文件上传结果，result: created | updated
	FileUploads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clubreview_file_uploads_total",
			Help: "File uploads by result",
		},
		[]string{"result"},
	)
)
