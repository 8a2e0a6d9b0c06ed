package logfields

import "go.uber.org/zap"

func CIJob(val int) zap.Field {
	return zap.Int("ci.job_id", val)
}

func CIJobName(val string) zap.Field {
	return zap.String("ci.job_name", val)
}

func CIProject(val int) zap.Field {
	return zap.Int("ci.project_id", val)
}
