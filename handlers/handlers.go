package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"pricetracker/models"
	"pricetracker/notify"
	"pricetracker/repository"
	"pricetracker/scheduler"
)

type Handlers struct {
	repo     *repository.ProductRepository
	checker  *scheduler.PriceChecker
	notifier notify.Notifier
}

func NewHandlers(repo *repository.ProductRepository, checker *scheduler.PriceChecker, notifier notify.Notifier) *Handlers {
	return &Handlers{
		repo:     repo,
		checker:  checker,
		notifier: notifier,
	}
}

// Register wires all product routes onto the router.
func (h *Handlers) Register(r *mux.Router) {
	r.HandleFunc("/api/products", h.CreateProduct).Methods("POST")
	r.HandleFunc("/api/products", h.GetProducts).Methods("GET")
	r.HandleFunc("/api/products/{id}", h.GetProduct).Methods("GET")
	r.HandleFunc("/api/products/{id}", h.UpdateProduct).Methods("PUT")
	r.HandleFunc("/api/products/{id}", h.DeleteProduct).Methods("DELETE")
	r.HandleFunc("/api/products/{id}/check", h.CheckProduct).Methods("POST")
	r.HandleFunc("/api/products/{id}/history", h.GetHistory).Methods("GET")
	r.HandleFunc("/api/products/{id}/test-notification", h.TestNotification).Methods("POST")
}

// CreateProduct adds a product to track and triggers its initial price check.
func (h *Handlers) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req models.CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Name == "" || req.URL == "" {
		writeError(w, http.StatusBadRequest, "Name and URL are required")
		return
	}
	if req.TargetPrice <= 0 {
		writeError(w, http.StatusBadRequest, "Target price must be positive")
		return
	}

	product := &models.Product{
		Name:              req.Name,
		URL:               req.URL,
		Description:       req.Description,
		ImageURL:          req.ImageURL,
		Selector:          req.Selector,
		TargetPrice:       req.TargetPrice,
		NotificationEmail: req.NotificationEmail,
	}

	if err := h.repo.Create(product); err != nil {
		log.Printf("Failed to create product: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to create product")
		return
	}

	// Fetch an initial price right away; a failure here is not fatal, the
	// scheduler picks the product up on the next sweep.
	if updated, err := h.checker.CheckNow(r.Context(), product.ID); err != nil {
		log.Printf("Initial price check failed for product %d: %v", product.ID, err)
	} else {
		product = updated
	}

	writeJSON(w, http.StatusCreated, product)
}

// GetProducts returns all tracked products.
func (h *Handlers) GetProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.repo.GetAll()
	if err != nil {
		log.Printf("Failed to get products: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to get products")
		return
	}

	if products == nil {
		products = []models.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}

// GetProduct returns a single product by id.
func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, ok := h.loadProduct(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// UpdateProduct edits the user-settable fields of a product.
func (h *Handlers) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	product, ok := h.loadProduct(w, r)
	if !ok {
		return
	}

	var req models.UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" || req.URL == "" {
		writeError(w, http.StatusBadRequest, "Name and URL are required")
		return
	}
	if req.TargetPrice <= 0 {
		writeError(w, http.StatusBadRequest, "Target price must be positive")
		return
	}

	product.Name = req.Name
	product.URL = req.URL
	product.Description = req.Description
	product.ImageURL = req.ImageURL
	product.Selector = req.Selector
	product.TargetPrice = req.TargetPrice
	product.NotificationEmail = req.NotificationEmail
	product.IsActive = req.IsActive

	if err := h.repo.Update(product); err != nil {
		log.Printf("Failed to update product %d: %v", product.ID, err)
		writeError(w, http.StatusInternalServerError, "Failed to update product")
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// DeleteProduct removes a product and all of its price history.
func (h *Handlers) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.repo.Delete(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Product not found")
			return
		}
		log.Printf("Failed to delete product %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "Failed to delete product")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Product deleted"})
}

// CheckProduct runs an on-demand price check for one product.
func (h *Handlers) CheckProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	product, err := h.checker.CheckNow(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Product not found")
			return
		}
		log.Printf("On-demand check failed for product %d: %v", id, err)
		writeError(w, http.StatusBadGateway, "Price check failed")
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// GetHistory returns price history for a product, newest first.
func (h *Handlers) GetHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if _, err := h.repo.GetByID(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Product not found")
			return
		}
		log.Printf("Failed to get product %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "Failed to get product")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	history, err := h.repo.GetHistory(id, limit)
	if err != nil {
		log.Printf("Failed to get history for product %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "Failed to get price history")
		return
	}

	if history == nil {
		history = []models.PriceHistory{}
	}
	writeJSON(w, http.StatusOK, history)
}

// TestNotification sends a sample price-drop notification for a product so
// users can verify their channels are configured.
func (h *Handlers) TestNotification(w http.ResponseWriter, r *http.Request) {
	product, ok := h.loadProduct(w, r)
	if !ok {
		return
	}

	if !product.HasPrice() {
		writeError(w, http.StatusBadRequest, "Product has no price yet")
		return
	}

	current := product.GetCurrentPrice()
	notification := models.Notification{
		Kind:     models.NotificationPriceDrop,
		Product:  *product,
		OldPrice: current * 1.25,
		NewPrice: current,
	}

	if err := h.notifier.Notify(r.Context(), notification); err != nil {
		log.Printf("Test notification failed for product %d: %v", product.ID, err)
		writeError(w, http.StatusInternalServerError, "Failed to send test notification")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Test notification sent"})
}

func (h *Handlers) loadProduct(w http.ResponseWriter, r *http.Request) (*models.Product, bool) {
	id, ok := parseID(w, r)
	if !ok {
		return nil, false
	}

	product, err := h.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Product not found")
		} else {
			log.Printf("Failed to get product %d: %v", id, err)
			writeError(w, http.StatusInternalServerError, "Failed to get product")
		}
		return nil, false
	}

	return product, true
}

func parseID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "Invalid product id")
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
