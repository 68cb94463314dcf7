package handler

import (
	"net/http"

	"precinct/contracts/records"
	"precinct/internal/records/models"
)

func toRecord(m *models.Record) records.Record {
	return records.Record{
		ID:         m.ID,
		Name:       m.Name,
		Sex:        records.Sex(m.Sex),
		NationalID: m.NationalID,
	}
}

func toListResponse(recs []*models.Record) records.ListResponse {
	data := make([]records.Record, 0, len(recs))
	for _, m := range recs {
		data = append(data, toRecord(m))
	}
	return records.ListResponse{Data: data}
}

func statusOK() records.StatusResponse {
	return records.StatusResponse{Status: http.StatusOK}
}
