package api

import (
	"github.com/JaimeStill/bulletin/internal/attachments"
	"github.com/JaimeStill/bulletin/internal/complaints"
	"github.com/JaimeStill/bulletin/internal/notices"
	"github.com/JaimeStill/bulletin/internal/records"
	"github.com/JaimeStill/bulletin/internal/students"
	"github.com/JaimeStill/bulletin/internal/taxonomy"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Notices     notices.System
	Complaints  complaints.System
	Students    students.System
	Attachments *attachments.Handler
	Taxonomy    *taxonomy.Handler
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	recordService := records.NewService(runtime.Sequence)
	files := attachments.NewStore(runtime.Storage, runtime.Logger)
	pool := runtime.Database.Pool()

	return &Domain{
		Notices: notices.New(
			pool,
			recordService,
			files,
			runtime.Logger,
			runtime.Pagination,
		),
		Complaints: complaints.New(
			pool,
			recordService,
			files,
			runtime.Logger,
			runtime.Pagination,
		),
		Students:    students.New(pool, runtime.Logger, 0),
		Attachments: attachments.NewHandler(runtime.Storage, runtime.Logger),
		Taxonomy:    taxonomy.NewHandler(runtime.Logger),
	}
}
