package handlers

import (
	"encoding/json"
	"io"
	"log"
	"math/rand"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/awesomestore/backend/models"
	"github.com/awesomestore/backend/service"
	"github.com/awesomestore/backend/store"
	"github.com/awesomestore/backend/validation"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var htmlTagRegex = regexp.MustCompile(`(<([^>]+)>)`)

type BooksHandler struct {
	DB       *store.DB
	Images   *service.ImageStore
	Validate *validation.Validator
	MaxBytes int64
}

// BookForm holds the add/edit-book fields; the image arrives as a separate
// multipart file part.
type BookForm struct {
	Title       string `json:"title" validate:"required"`
	AuthorName  string `json:"authorName" validate:"required"`
	Description string `json:"description"`
	Quantity    string `json:"quantity" validate:"required"`
	Price       string `json:"price" validate:"required"`
}

func (h *BooksHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	books, err := h.DB.AllBooks(r.Context())
	if err != nil {
		http.Error(w, `{"error":"failed to list books"}`, http.StatusInternalServerError)
		return
	}
	if books == nil {
		books = []models.Book{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(books)
}

type BookDetailResponse struct {
	models.Book
	DescriptionText string `json:"descriptionText"`
}

// Get returns one book with its description stripped of HTML markup for the
// detail page.
func (h *BooksHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	book, ok := h.bookFromURL(w, r)
	if !ok {
		return
	}
	resp := BookDetailResponse{
		Book:            *book,
		DescriptionText: htmlTagRegex.ReplaceAllString(book.Description, ""),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// Image streams the book's cover image from storage. Public so img src works.
func (h *BooksHandler) Image(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	book, ok := h.bookFromURL(w, r)
	if !ok {
		return
	}
	if book.ImageName == "" || h.Images == nil {
		http.Error(w, `{"error":"no image"}`, http.StatusNotFound)
		return
	}
	body, contentType, err := h.Images.GetObject(r.Context(), book.ImageName)
	if err != nil {
		http.Error(w, `{"error":"failed to load image"}`, http.StatusInternalServerError)
		return
	}
	defer body.Close()
	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	io.Copy(w, body)
}

// Create adds a book along with its denormalized Author and BookSet records.
// The three inserts are sequential; a failure after the book insert is
// reported so the catalog can be repaired rather than silently skewed.
func (h *BooksHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	form, quantity, price, imageName, ok := h.parseBookForm(w, r)
	if !ok {
		return
	}

	bookID := rand.Int63n(1_000_000) + 1
	authorID := bookID * 2

	book := &models.Book{
		BookID:      bookID,
		Title:       form.Title,
		AuthorName:  form.AuthorName,
		Description: form.Description,
		ImageName:   imageName,
		Quantity:    quantity,
		Price:       price,
		CreatedAt:   time.Now(),
	}
	id, err := h.DB.InsertBook(r.Context(), book)
	if err != nil {
		http.Error(w, `{"error":"failed to save book"}`, http.StatusInternalServerError)
		return
	}
	book.ID = id

	author := &models.Author{BookID: bookID, AuthorID: authorID, AuthorName: form.AuthorName}
	if _, err := h.DB.InsertAuthor(r.Context(), author); err != nil {
		http.Error(w, `{"error":"book saved but author index failed"}`, http.StatusInternalServerError)
		return
	}
	set := &models.BookSet{BookID: bookID, AuthorID: authorID, BookName: form.Title}
	if _, err := h.DB.InsertBookSet(r.Context(), set); err != nil {
		http.Error(w, `{"error":"book saved but book set failed"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(book)
}

// Update edits a book and fans the new title and author name out to the
// BookSet and Author records keyed by the book's numeric id.
func (h *BooksHandler) Update(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut && r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	book, ok := h.bookFromURL(w, r)
	if !ok {
		return
	}
	form, quantity, price, imageName, ok := h.parseBookForm(w, r)
	if !ok {
		return
	}

	book.Title = form.Title
	book.AuthorName = form.AuthorName
	book.Description = form.Description
	book.Quantity = quantity
	book.Price = price
	oldImage := ""
	if imageName != "" {
		oldImage = book.ImageName
		book.ImageName = imageName
	}

	if err := h.DB.UpdateBook(r.Context(), book.ID, book); err != nil {
		http.Error(w, `{"error":"failed to update book"}`, http.StatusInternalServerError)
		return
	}
	if err := h.DB.UpdateBookSetName(r.Context(), book.BookID, form.Title); err != nil {
		http.Error(w, `{"error":"book updated but book set rename failed"}`, http.StatusInternalServerError)
		return
	}
	if err := h.DB.UpdateAuthorName(r.Context(), book.BookID, form.AuthorName); err != nil {
		http.Error(w, `{"error":"book updated but author rename failed"}`, http.StatusInternalServerError)
		return
	}
	if oldImage != "" && h.Images != nil {
		if err := h.Images.Delete(r.Context(), oldImage); err != nil {
			log.Printf("books: delete replaced image %s: %v", oldImage, err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(book)
}

// Delete removes a book, its denormalized records, and its stored image.
func (h *BooksHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	idStr := chi.URLParam(r, "id")
	id, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		http.Error(w, `{"error":"invalid book id"}`, http.StatusBadRequest)
		return
	}
	book, err := h.DB.DeleteBook(r.Context(), id)
	if err != nil {
		http.Error(w, `{"error":"failed to delete book"}`, http.StatusInternalServerError)
		return
	}
	if book == nil {
		http.Error(w, `{"error":"no book found with that id"}`, http.StatusNotFound)
		return
	}
	if err := h.DB.DeleteAuthorByBookID(r.Context(), book.BookID); err != nil {
		log.Printf("books: delete author records for book %d: %v", book.BookID, err)
	}
	if err := h.DB.DeleteBookSetByBookID(r.Context(), book.BookID); err != nil {
		log.Printf("books: delete book set records for book %d: %v", book.BookID, err)
	}
	if book.ImageName != "" && h.Images != nil {
		if err := h.Images.Delete(r.Context(), book.ImageName); err != nil {
			log.Printf("books: delete image %s: %v", book.ImageName, err)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *BooksHandler) bookFromURL(w http.ResponseWriter, r *http.Request) (*models.Book, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		http.Error(w, `{"error":"invalid book id"}`, http.StatusBadRequest)
		return nil, false
	}
	book, err := h.DB.BookByID(r.Context(), id)
	if err != nil {
		http.Error(w, `{"error":"failed to load book"}`, http.StatusInternalServerError)
		return nil, false
	}
	if book == nil {
		http.Error(w, `{"error":"no book found with that id"}`, http.StatusNotFound)
		return nil, false
	}
	return book, true
}

// parseBookForm reads the multipart add/edit-book form, validates it, and
// uploads the optional image part. Reports ok=false after writing the error
// response.
func (h *BooksHandler) parseBookForm(w http.ResponseWriter, r *http.Request) (form BookForm, quantity int64, price primitive.Decimal128, imageName string, ok bool) {
	if h.MaxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.MaxBytes)
	}
	if err := r.ParseMultipartForm(h.MaxBytes); err != nil {
		http.Error(w, `{"error":"failed to parse multipart form"}`, http.StatusBadRequest)
		return
	}
	form = BookForm{
		Title:       strings.TrimSpace(r.FormValue("title")),
		AuthorName:  strings.TrimSpace(r.FormValue("authorName")),
		Description: r.FormValue("description"),
		Quantity:    strings.TrimSpace(r.FormValue("quantity")),
		Price:       strings.TrimSpace(r.FormValue("price")),
	}
	if written := validateForm(w, h.Validate, &form); written {
		return
	}
	quantity, err := strconv.ParseInt(form.Quantity, 10, 64)
	if err != nil || quantity < 0 {
		http.Error(w, `{"error":"quantity must be a non-negative number"}`, http.StatusBadRequest)
		return
	}
	priceDec, err := decimal.NewFromString(form.Price)
	if err != nil || priceDec.IsNegative() {
		http.Error(w, `{"error":"price must be a non-negative amount"}`, http.StatusBadRequest)
		return
	}
	price, err = primitive.ParseDecimal128(priceDec.StringFixed(2))
	if err != nil {
		http.Error(w, `{"error":"price must be a non-negative amount"}`, http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("image")
	if err == nil {
		defer file.Close()
		if h.Images == nil {
			http.Error(w, `{"error":"image upload not configured"}`, http.StatusServiceUnavailable)
			return
		}
		contentType := header.Header.Get("Content-Type")
		if !strings.HasPrefix(contentType, "image/") {
			http.Error(w, `{"error":"only image uploads are allowed"}`, http.StatusBadRequest)
			return
		}
		key, err := h.Images.Upload(r.Context(), header.Filename, file, contentType)
		if err != nil {
			http.Error(w, `{"error":"failed to upload image"}`, http.StatusInternalServerError)
			return
		}
		imageName = key
	}

	ok = true
	return
}
