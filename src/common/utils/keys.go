package utils

import "strings"

const (
	operatorNamespace = "toc"
	tiplocNamespace   = "tiploc"
)

func referenceKey(namespace string) string {
	return strings.Join([]string{"reference", namespace}, ":")
}

func OperatorReferenceKey() string {
	return referenceKey(operatorNamespace)
}

func TiplocReferenceKey() string {
	return referenceKey(tiplocNamespace)
}

// EventBatchKey marks a published batch as already stored.
func EventBatchKey(id string) string {
	return strings.Join([]string{"batch", id}, ":")
}
