package bindgen

import "text/template"

// javascriptTemplate renders one module of promise-based proxy classes for
// browser or Node WebSocket clients. Replies are matched to requests in
// send order; error frames reject the pending promise.
var javascriptTemplate = template.Must(template.New("javascript").Parse(`// Code generated by introspection bindgen. DO NOT EDIT.
{{range .Classes}}
/** Remote proxy for {{.Name}} over the live-sync WebSocket protocol. */
class {{.Name}} {
  constructor(url = "{{.Endpoint}}") {
    this.url = url;
    this.ws = null;
    this.state = null;
    this._queue = [];
  }

  static get className() { return "{{.Name}}"; }
  static get memberNames() { return [{{.MemberList}}]; }
  static get methodNames() { return [{{.MethodList}}]; }

  connect() {
    return new Promise((resolve, reject) => {
      this.ws = new WebSocket(this.url);
      this.ws.onerror = (err) => reject(err);
      this.ws.onmessage = (ev) => this._onFrame(JSON.parse(ev.data));
      this._queue.push({ expect: "state", resolve: () => resolve(this), reject });
    });
  }

  close() {
    if (this.ws) this.ws.close();
  }

  _onFrame(frame) {
    if (frame.type === "state") this.state = frame;
    const head = this._queue[0];
    if (!head) return;
    if (frame.type === "error") {
      this._queue.shift();
      head.reject(new Error(frame.message));
    } else if (frame.type === head.expect) {
      this._queue.shift();
      head.resolve(frame);
    }
  }

  _send(frame, expect) {
    return new Promise((resolve, reject) => {
      this._queue.push({ expect, resolve, reject });
      this.ws.send(JSON.stringify(frame));
    });
  }

  static _arg(value) {
    if (typeof value === "boolean") return value ? "true" : "false";
    return String(value);
  }
{{range .Members}}
  /** @returns {Promise<{{.JSType}}>} */
  get{{.Accessor}}() {
    return this._send({ type: "get", field: "{{.Name}}" }, "value").then((f) => f.value);
  }

  /** @param {{"{"}}{{.JSType}}} value */
  set{{.Accessor}}(value) {
    return this._send({ type: "update", field: "{{.Name}}", value: this.constructor._arg(value) }, "state");
  }
{{end}}{{range .Methods}}
  /** @returns {Promise<{{.JSReturn}}>} */
  {{.Name}}({{.JSParams}}) {
    if (arguments.length !== {{.Arity}}) {
      throw new Error("{{.Name}} expects {{.Arity}} arguments, got " + arguments.length);
    }
    return this._send({
      type: "method",
      name: "{{.Name}}",
      args: [{{.JSParams}}].map(this.constructor._arg),
    }, "method_success").then((f) => f.result);
  }
{{end}}}
{{end}}`))
