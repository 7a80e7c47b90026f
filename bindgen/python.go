package bindgen

import "text/template"

// pythonTemplate renders one module of proxy classes on top of the
// websocket-client package. Properties use get/update frames; methods use
// method frames and surface error frames as RuntimeError.
var pythonTemplate = template.Must(template.New("python").Parse(`# Code generated by introspection bindgen. DO NOT EDIT.

import json
import uuid

from websocket import create_connection

{{range .Classes}}
class {{.Name}}:
    """Remote proxy for {{.Name}} over the live-sync WebSocket protocol."""

    CLASS_NAME = "{{.Name}}"
    MEMBER_NAMES = [{{.MemberList}}]
    METHOD_NAMES = [{{.MethodList}}]

    def __init__(self, url="{{.Endpoint}}"):
        self._ws = create_connection(url)
        self._recv("state")

    def close(self):
        self._ws.close()

    def _send(self, frame):
        frame["id"] = str(uuid.uuid4())
        self._ws.send(json.dumps(frame))

    def _recv(self, expected):
        while True:
            frame = json.loads(self._ws.recv())
            if frame["type"] == "error":
                raise RuntimeError(frame["message"])
            if frame["type"] == expected:
                return frame

    @staticmethod
    def _arg(value):
        if isinstance(value, bool):
            return "true" if value else "false"
        return str(value)
{{range .Members}}
    @property
    def {{.PyName}}(self) -> {{.PyType}}:
        self._send({"type": "get", "field": "{{.Name}}"})
        return self._recv("value")["value"]

    @{{.PyName}}.setter
    def {{.PyName}}(self, value: {{.PyType}}) -> None:
        self._send({"type": "update", "field": "{{.Name}}", "value": self._arg(value)})
        self._recv("state")
{{end}}{{range .Methods}}
    def {{.PyName}}(self{{if .PyParams}}, {{.PyParams}}{{end}}) -> {{.PyReturn}}:
        self._send({"type": "method", "name": "{{.Name}}", "args": [{{.PyArgs}}]})
        {{if .Void}}self._recv("method_success"){{else}}return self._recv("method_success").get("result"){{end}}
{{end}}
{{end}}`))
