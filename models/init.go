package models

// Tables returns every persisted model, in migration order.
func Tables() []interface{} {
	return []interface{}{
		&UserProfile{},
		&Credential{},
		&Customer{},
		&Campaign{},
		&Lead{},
		&MetricRecord{},
	}
}
