package config

type WorkerKeyStruct struct {
	CertificateRenderQueue string
}

var WorkerKey = &WorkerKeyStruct{
	CertificateRenderQueue: "certificate_render_queue",
}
