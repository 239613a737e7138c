package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	PhotosUploaded = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "photos_uploaded_total",
		Help: "Total number of photos accepted for feature extraction.",
	})

	FaceDetectionRetries = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "face_detection_retries_total",
		Help: "Total number of uploads rejected with the face-not-detected sentinel.",
	})

	ReportsGenerated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reports_generated_total",
		Help: "Total number of report payloads generated, by report type.",
	}, []string{"type"})

	PaymentsConfirmed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payments_confirmed_total",
		Help: "Total number of successfully confirmed payments, by report type.",
	}, []string{"type"})

	PaymentsFailed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "payments_failed_total",
		Help: "Total number of payment confirmations that exhausted all retries.",
	})
)

func init() {
	prometheus.MustRegister(
		PhotosUploaded,
		FaceDetectionRetries,
		ReportsGenerated,
		PaymentsConfirmed,
		PaymentsFailed,
	)
}
