package domain

var statusLabels = map[string]map[Status]string{
	"en": {
		StatusPending:    "Pending",
		StatusProcessing: "Processing",
		StatusShipped:    "Shipped",
		StatusDelivered:  "Delivered",
		StatusCancelled:  "Cancelled",
	},
	"fr": {
		StatusPending:    "En attente",
		StatusProcessing: "En traitement",
		StatusShipped:    "Expédiée",
		StatusDelivered:  "Livrée",
		StatusCancelled:  "Annulée",
	},
}

// StatusLabeler returns the display label function for lang, falling back to
// French, the storefront default.
func StatusLabeler(lang string) func(Status) string {
	labels, ok := statusLabels[lang]
	if !ok {
		labels = statusLabels["fr"]
	}
	return func(s Status) string {
		if label, ok := labels[s]; ok {
			return label
		}
		return string(s)
	}
}
