package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cartItemsAdded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cart_items_added_total",
			Help: "Number of line items added to carts",
		},
		[]string{"customized"},
	)

	cartItemsRemoved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cart_items_removed_total",
			Help: "Number of remove requests applied to carts",
		},
	)

	cartCheckouts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cart_checkouts_total",
			Help: "Number of checkout attempts by result",
		},
		[]string{"result"},
	)
)
