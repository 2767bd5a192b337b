package poller

import "net/http"

type errStatusNotOK int

func (e errStatusNotOK) Error() string {
	return "non-2xx HTTP status code: " + http.StatusText(int(e))
}

type errPathNotFound string

func (e errPathNotFound) Error() string {
	return "JSON path not found in response: " + string(e)
}

type errNotAnObject string

func (e errNotAnObject) Error() string {
	return "JSON path does not hold a metrics object: " + string(e)
}

type errNotASeries string

func (e errNotASeries) Error() string {
	return "metric is not an array of numbers: " + string(e)
}
